package forecast

import (
	"errors"
	"sort"

	"github.com/lox/bookingforecast/internal/models"
)

var ErrNoTrainingRecords = errors.New("no training records")

// Profile is a read-only mapping from (days prior, weekday) to a mean.
type Profile struct {
	means   map[models.ProfileKey]float64
	samples map[models.ProfileKey]int
}

func (p *Profile) Lookup(key models.ProfileKey) (float64, bool) {
	v, ok := p.means[key]
	return v, ok
}

// SampleSize is the number of training records behind the mean for key.
func (p *Profile) SampleSize(key models.ProfileKey) int {
	return p.samples[key]
}

func (p *Profile) Len() int {
	return len(p.means)
}

// Keys returns the profile keys in ascending order.
func (p *Profile) Keys() []models.ProfileKey {
	keys := make([]models.ProfileKey, 0, len(p.means))
	for k := range p.means {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

type Profiles struct {
	RemainingDemand *Profile
	BookingRate     *Profile
	Stats           BuildStats
}

type BuildStats struct {
	Records    int
	Departures int
	// ZeroFinalDemand counts records left out of the booking rate mean
	// because their departure ended with no bookings.
	ZeroFinalDemand int
}

type runningMean struct {
	sum   float64
	count int
}

type meanAccumulator map[models.ProfileKey]*runningMean

func (a meanAccumulator) add(key models.ProfileKey, v float64) {
	m := a[key]
	if m == nil {
		m = &runningMean{}
		a[key] = m
	}
	m.sum += v
	m.count++
}

func (a meanAccumulator) finalize() *Profile {
	p := &Profile{
		means:   make(map[models.ProfileKey]float64, len(a)),
		samples: make(map[models.ProfileKey]int, len(a)),
	}
	for k, m := range a {
		p.means[k] = m.sum / float64(m.count)
		p.samples[k] = m.count
	}
	return p
}

// BuildProfiles computes mean remaining demand and mean booking rate per
// (days prior, weekday) from training records. Every departure must have
// exactly one departure-day snapshot; otherwise the joined IntegrityErrors
// are returned.
func BuildProfiles(training []models.DerivedRecord) (*Profiles, error) {
	if len(training) == 0 {
		return nil, ErrNoTrainingRecords
	}

	final, bad := finalDemandIndex(training)
	if len(bad) > 0 {
		errs := make([]error, len(bad))
		for i, e := range bad {
			errs[i] = e
		}
		return nil, errors.Join(errs...)
	}

	remaining := make(meanAccumulator)
	rate := make(meanAccumulator)
	stats := BuildStats{Records: len(training), Departures: len(final)}

	for _, rec := range training {
		fd := final[rec.DepartureDate]
		key := rec.Key()

		remaining.add(key, fd-rec.CumBookings)

		if fd == 0 {
			stats.ZeroFinalDemand++
			continue
		}
		rate.add(key, rec.CumBookings/fd)
	}

	return &Profiles{
		RemainingDemand: remaining.finalize(),
		BookingRate:     rate.finalize(),
		Stats:           stats,
	}, nil
}
