package domain

import (
	"fmt"
	"time"
)

// Provider is the business account that owns services, schedule and appointments.
type Provider struct {
	ID          int64
	OwnerUserID int64 // staff user allowed to manage the provider
	Name        string

	// UTCOffsetMinutes is the provider's static timezone offset (no DST handling).
	UTCOffsetMinutes int

	// Booking settings
	SlotGranularityMinutes  int // 0 = service default
	MinBookingNoticeMinutes int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location returns the provider's fixed-offset timezone.
func (p *Provider) Location() *time.Location {
	if p.UTCOffsetMinutes == 0 {
		return time.UTC
	}
	return time.FixedZone(fmt.Sprintf("UTC%+03d:%02d", p.UTCOffsetMinutes/60, abs(p.UTCOffsetMinutes%60)), p.UTCOffsetMinutes*60)
}

// Granularity returns the configured slot step or fallback when unset.
func (p *Provider) Granularity(fallback int) int {
	if p.SlotGranularityMinutes > 0 {
		return p.SlotGranularityMinutes
	}
	return fallback
}

// SlotStep returns the step for a requested granularity, rounded up to a multiple of the
// provider's own step so every offered slot stays on the grid accepted at booking time.
// A zero or smaller request falls back to the provider's step.
func (p *Provider) SlotStep(requested, fallback int) int {
	base := p.Granularity(fallback)
	if requested <= base {
		return base
	}
	return (requested + base - 1) / base * base
}

// IsOwner reports whether userID manages this provider.
func (p *Provider) IsOwner(userID int64) bool {
	return p.OwnerUserID != 0 && p.OwnerUserID == userID
}

// Service is a bookable offering of a single provider.
type Service struct {
	ID              int64
	ProviderID      int64
	Name            string
	DurationMinutes int
	Price           float64
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate checks service invariants.
func (s *Service) Validate() error {
	if s.DurationMinutes <= 0 || s.DurationMinutes > MaxServiceDurationMinutes {
		return fmt.Errorf("%w: service duration must be in 1..%d minutes, got %d",
			ErrValidation, MaxServiceDurationMinutes, s.DurationMinutes)
	}
	if s.Price < 0 {
		return fmt.Errorf("%w: service price must not be negative", ErrValidation)
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
