package models

type UserRole string
type ServiceRequestStatus string
type ProposalStatus string
type SubscriptionStatus string
type Urgency string

const (
	UserRoleClient       UserRole = "client"
	UserRoleProfessional UserRole = "professional"
	UserRoleAdmin        UserRole = "admin"

	ServiceRequestStatusOpen      ServiceRequestStatus = "open"
	ServiceRequestStatusMatched   ServiceRequestStatus = "matched"
	ServiceRequestStatusClosed    ServiceRequestStatus = "closed"
	ServiceRequestStatusCancelled ServiceRequestStatus = "cancelled"

	ProposalStatusPending   ProposalStatus = "pending"
	ProposalStatusAccepted  ProposalStatus = "accepted"
	ProposalStatusRejected  ProposalStatus = "rejected"
	ProposalStatusCancelled ProposalStatus = "cancelled"

	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusInactive  SubscriptionStatus = "inactive"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusPastDue   SubscriptionStatus = "past_due"
	SubscriptionStatusTrialing  SubscriptionStatus = "trialing"

	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// IsTerminal reports whether a proposal status admits no further transitions.
func (s ProposalStatus) IsTerminal() bool {
	return s == ProposalStatusAccepted || s == ProposalStatusRejected || s == ProposalStatusCancelled
}
