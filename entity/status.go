package entity

type ServiceStatus string

const (
	ServiceOpened    ServiceStatus = "Opened"
	ServiceFilled    ServiceStatus = "Filled"
	ServiceCancelled ServiceStatus = "Cancelled"
	ServiceFinished  ServiceStatus = "Finished"
	ServiceConfirmed ServiceStatus = "Confirmed"
)

type ProposalStatus string

const (
	ProposalPending  ProposalStatus = "Pending"
	ProposalRejected ProposalStatus = "Rejected"
	ProposalAccepted ProposalStatus = "Accepted"
)

type PaymentType string

const (
	PaymentRelease   PaymentType = "Release"
	PaymentReimburse PaymentType = "Reimburse"
)

// PaymentTypeFromCode maps the escrow contract's enum; unknown codes yield "".
func PaymentTypeFromCode(code uint8) PaymentType {
	switch code {
	case 0:
		return PaymentRelease
	case 1:
		return PaymentReimburse
	default:
		return ""
	}
}
