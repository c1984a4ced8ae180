package scheme

import (
	"github.com/ledgerwatch/erigon-lib/kv"
)

const (
	ConfigBucket   = "config" // last indexed block, document sequence
	LastBlockKey   = "last_block"
	DocumentSeqKey = "document_seq"

	PendingDocumentsBucket = "pending_documents" // sequence -> ipfs.Request
)

// Entity buckets, one per entity kind; key is the entity id.
const (
	UserBucket     = "users"
	ServiceBucket  = "services"
	ProposalBucket = "proposals"
	ReviewBucket   = "reviews"
	PaymentBucket  = "payments"
	PlatformBucket = "platforms"
	TokenBucket    = "tokens"
	ProtocolBucket = "protocol"
	EvidenceBucket = "evidences"
)

// Description buckets are versioned: cid|0x00|version -> description.
const (
	ServiceDescriptionBucket  = "service_descriptions"
	ProposalDescriptionBucket = "proposal_descriptions"
	UserDescriptionBucket     = "user_descriptions"
	PlatformDescriptionBucket = "platform_descriptions"
	ReviewDescriptionBucket   = "review_descriptions"
	EvidenceDescriptionBucket = "evidence_descriptions"
)

func EntityTables() kv.TableCfg {
	return kv.TableCfg{
		UserBucket:     {},
		ServiceBucket:  {},
		ProposalBucket: {},
		ReviewBucket:   {},
		PaymentBucket:  {},
		PlatformBucket: {},
		TokenBucket:    {},
		ProtocolBucket: {},
		EvidenceBucket: {},
	}
}

func DescriptionTables() kv.TableCfg {
	return kv.TableCfg{
		ServiceDescriptionBucket:  {},
		ProposalDescriptionBucket: {},
		UserDescriptionBucket:     {},
		PlatformDescriptionBucket: {},
		ReviewDescriptionBucket:   {},
		EvidenceDescriptionBucket: {},
	}
}

func DefaultTables() kv.TableCfg {
	return MergeTables(
		kv.TableCfg{
			ConfigBucket:           {},
			PendingDocumentsBucket: {},
		},
		EntityTables(),
		DescriptionTables(),
	)
}

// Buckets lists every table name of DefaultTables.
func Buckets() []string {
	tables := DefaultTables()

	out := make([]string, 0, len(tables))
	for name := range tables {
		out = append(out, name)
	}

	return out
}

func MergeTables(bucketSets ...kv.TableCfg) kv.TableCfg {
	final := kv.TableCfg{}

	for _, buckets := range bucketSets {
		for i := range buckets {
			final[i] = buckets[i]
		}
	}

	return final
}
