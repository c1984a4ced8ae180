package mapping

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Event-only ABI fragments of the protocol contracts.
const (
	serviceRegistryJSON = `[
{"type":"event","name":"ServiceCreated","anonymous":false,"inputs":[
	{"name":"id","type":"uint256","indexed":false},
	{"name":"buyerId","type":"uint256","indexed":false},
	{"name":"sellerId","type":"uint256","indexed":false},
	{"name":"initiatorId","type":"uint256","indexed":false},
	{"name":"platformId","type":"uint256","indexed":false}]},
{"type":"event","name":"ServiceDataCreated","anonymous":false,"inputs":[
	{"name":"id","type":"uint256","indexed":false},
	{"name":"serviceDataUri","type":"string","indexed":false}]},
{"type":"event","name":"ServiceDetailedUpdated","anonymous":false,"inputs":[
	{"name":"id","type":"uint256","indexed":true},
	{"name":"newServiceDataUri","type":"string","indexed":false}]},
{"type":"event","name":"ServiceCancelled","anonymous":false,"inputs":[
	{"name":"id","type":"uint256","indexed":false}]},
{"type":"event","name":"ProposalCreated","anonymous":false,"inputs":[
	{"name":"serviceId","type":"uint256","indexed":false},
	{"name":"sellerId","type":"uint256","indexed":false},
	{"name":"proposalDataUri","type":"string","indexed":false},
	{"name":"rateToken","type":"address","indexed":false},
	{"name":"rateAmount","type":"uint256","indexed":false}]},
{"type":"event","name":"ProposalRejected","anonymous":false,"inputs":[
	{"name":"serviceId","type":"uint256","indexed":false},
	{"name":"sellerId","type":"uint256","indexed":false}]},
{"type":"event","name":"ProposalUpdated","anonymous":false,"inputs":[
	{"name":"serviceId","type":"uint256","indexed":false},
	{"name":"sellerId","type":"uint256","indexed":false},
	{"name":"proposalDataUri","type":"string","indexed":false},
	{"name":"rateToken","type":"address","indexed":false},
	{"name":"rateAmount","type":"uint256","indexed":false}]}
]`

	// ERC721 plus EIP-2309 events are shared by both identity contracts.
	erc721EventsJSON = `
{"type":"event","name":"Transfer","anonymous":false,"inputs":[
	{"name":"from","type":"address","indexed":true},
	{"name":"to","type":"address","indexed":true},
	{"name":"tokenId","type":"uint256","indexed":true}]},
{"type":"event","name":"Approval","anonymous":false,"inputs":[
	{"name":"owner","type":"address","indexed":true},
	{"name":"approved","type":"address","indexed":true},
	{"name":"tokenId","type":"uint256","indexed":true}]},
{"type":"event","name":"ApprovalForAll","anonymous":false,"inputs":[
	{"name":"owner","type":"address","indexed":true},
	{"name":"operator","type":"address","indexed":true},
	{"name":"approved","type":"bool","indexed":false}]},
{"type":"event","name":"ConsecutiveTransfer","anonymous":false,"inputs":[
	{"name":"fromTokenId","type":"uint256","indexed":true},
	{"name":"toTokenId","type":"uint256","indexed":false},
	{"name":"fromAddress","type":"address","indexed":true},
	{"name":"toAddress","type":"address","indexed":true}]}`

	platformIDJSON = `[
{"type":"event","name":"Mint","anonymous":false,"inputs":[
	{"name":"_platformOwnerAddress","type":"address","indexed":true},
	{"name":"_tokenId","type":"uint256","indexed":false},
	{"name":"_platformName","type":"string","indexed":false},
	{"name":"_fee","type":"uint256","indexed":false}]},
{"type":"event","name":"CidUpdated","anonymous":false,"inputs":[
	{"name":"_tokenId","type":"uint256","indexed":true},
	{"name":"_newCid","type":"string","indexed":false}]},
{"type":"event","name":"MintFeeUpdated","anonymous":false,"inputs":[
	{"name":"_mintFee","type":"uint256","indexed":false}]},` + erc721EventsJSON + `
]`

	userIDJSON = `[
{"type":"event","name":"Mint","anonymous":false,"inputs":[
	{"name":"_user","type":"address","indexed":true},
	{"name":"_tokenId","type":"uint256","indexed":false},
	{"name":"_handle","type":"string","indexed":false}]},
{"type":"event","name":"CidUpdated","anonymous":false,"inputs":[
	{"name":"_tokenId","type":"uint256","indexed":true},
	{"name":"_newCid","type":"string","indexed":false}]},
{"type":"event","name":"MintFeeUpdated","anonymous":false,"inputs":[
	{"name":"_mintFee","type":"uint256","indexed":false}]},` + erc721EventsJSON + `
]`

	reviewJSON = `[
{"type":"event","name":"Mint","anonymous":false,"inputs":[
	{"name":"_serviceId","type":"uint256","indexed":true},
	{"name":"_toId","type":"uint256","indexed":true},
	{"name":"_tokenId","type":"uint256","indexed":false},
	{"name":"_rating","type":"uint256","indexed":false},
	{"name":"_reviewUri","type":"string","indexed":false}]},` + erc721EventsJSON + `
]`

	escrowJSON = `[
{"type":"event","name":"TransactionCreated","anonymous":false,"inputs":[
	{"name":"_transactionId","type":"uint256","indexed":false},
	{"name":"_senderId","type":"uint256","indexed":false},
	{"name":"_receiverId","type":"uint256","indexed":false},
	{"name":"_token","type":"address","indexed":false},
	{"name":"_amount","type":"uint256","indexed":false},
	{"name":"_serviceId","type":"uint256","indexed":false}]},
{"type":"event","name":"Payment","anonymous":false,"inputs":[
	{"name":"_transactionId","type":"uint256","indexed":false},
	{"name":"_paymentType","type":"uint8","indexed":false},
	{"name":"_token","type":"address","indexed":false},
	{"name":"_amount","type":"uint256","indexed":false},
	{"name":"_serviceId","type":"uint256","indexed":false}]},
{"type":"event","name":"PaymentCompleted","anonymous":false,"inputs":[
	{"name":"_serviceId","type":"uint256","indexed":false}]},
{"type":"event","name":"EvidenceSubmitted","anonymous":false,"inputs":[
	{"name":"_transactionId","type":"uint256","indexed":true},
	{"name":"_partyId","type":"uint256","indexed":true},
	{"name":"_evidenceUri","type":"string","indexed":false}]}
]`
)

//nolint:gochecknoglobals // parsed once
var (
	ServiceRegistryABI = mustABI(serviceRegistryJSON)
	PlatformIDABI      = mustABI(platformIDJSON)
	UserIDABI          = mustABI(userIDJSON)
	ReviewABI          = mustABI(reviewJSON)
	EscrowABI          = mustABI(escrowJSON)
)

func mustABI(s string) abi.ABI {
	a, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}

	return a
}
