package access

import "time"

// SubscriptionStatus mirrors the billing provider's subscription state.
type SubscriptionStatus string

// Subscription statuses.
const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionTrialing SubscriptionStatus = "trialing"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// Subscription is the billing input to tenant state derivation.
type Subscription struct {
	Status      SubscriptionStatus
	Active      bool
	TrialEndsAt *time.Time
}

// TenantState is the per-session lifecycle snapshot of the active tenant.
// It is derived fresh on every tenant-context load and never persisted.
type TenantState struct {
	Frozen        bool `json:"frozen"`
	Trialing      bool `json:"trialing"`
	TrialExpired  bool `json:"trial_expired"`
	Impersonating bool `json:"impersonating"`
}

// WriteState is the tenant's position in the write-eligibility machine.
type WriteState string

// Write-eligibility states. All are revisitable; impersonation takes
// precedence over frozen.
const (
	StateActiveWritable       WriteState = "active_writable"
	StateFrozenReadOnly       WriteState = "frozen_readonly"
	StateImpersonatedReadOnly WriteState = "impersonated_readonly"
)

// WriteState reduces the snapshot to the write-eligibility machine.
func (s TenantState) WriteState() WriteState {
	switch {
	case s.Impersonating:
		return StateImpersonatedReadOnly
	case s.Frozen:
		return StateFrozenReadOnly
	default:
		return StateActiveWritable
	}
}

// DeriveTenantState computes the lifecycle snapshot from subscription and
// impersonation inputs. Frozen means the subscription no longer permits
// writes; trial flags are derived from the trial end against now.
func DeriveTenantState(sub Subscription, impersonating bool, now time.Time) TenantState {
	frozen := !sub.Active
	switch sub.Status {
	case SubscriptionActive, SubscriptionTrialing:
	default:
		frozen = true
	}

	var trialing, trialExpired bool
	if sub.TrialEndsAt != nil {
		if sub.TrialEndsAt.After(now) {
			trialing = sub.Status == SubscriptionTrialing
		} else {
			trialExpired = true
		}
	}

	return TenantState{
		Frozen:        frozen,
		Trialing:      trialing,
		TrialExpired:  trialExpired,
		Impersonating: impersonating,
	}
}
