// Package merge implements the record merge and aggregation engine: order-id
// dedup of transactions, false-error pruning, customer aggregation, and the
// final cross-source merge by phone number.
package merge

import (
	"fmt"
	"math"

	"github.com/Acehaidrey/acelife/internal/model"
	"github.com/Acehaidrey/acelife/internal/normalize"
)

// MergeRecords combines transactions sharing a non-empty order id into one
// record per id. Field selection is positional: the first non-null value
// across the group wins, in input order. A later, more complete duplicate
// email can therefore lose fields to an earlier incomplete one; this is a
// known lossy choice preserved for compatibility with historical outputs.
// Records without an order id pass through individually, unmerged.
func MergeRecords(records []*model.TransactionRecord) []*model.TransactionRecord {
	groups := make(map[string][]*model.TransactionRecord)
	var order []string
	var keyless []*model.TransactionRecord

	for _, r := range records {
		if r.OrderID == "" {
			keyless = append(keyless, r)
			continue
		}
		if _, seen := groups[r.OrderID]; !seen {
			order = append(order, r.OrderID)
		}
		groups[r.OrderID] = append(groups[r.OrderID], r)
	}

	merged := make([]*model.TransactionRecord, 0, len(order)+len(keyless))
	for _, id := range order {
		merged = append(merged, mergeGroup(groups[id]))
	}
	return append(merged, keyless...)
}

// mergeGroup synthesizes one record from duplicates of the same order.
// Inputs are never mutated.
func mergeGroup(group []*model.TransactionRecord) *model.TransactionRecord {
	first := group[0]
	out := model.NewTransactionRecord(first.Platform, first.OrderDate)
	out.OrderID = first.OrderID
	// Fields that default to zero values take the first record's value
	// outright; nullable fields take the first non-empty one.
	out.OrderAmount = first.OrderAmount
	out.Error = first.Error
	out.ErrorReason = append([]model.ErrorTag(nil), first.ErrorReason...)

	for _, r := range group {
		if out.StoreName == "" {
			out.StoreName = r.StoreName
		}
		if out.StoreBrand == "" {
			out.StoreBrand = r.StoreBrand
		}
		if out.OrderType == "" {
			out.OrderType = r.OrderType
		}
		if out.PaymentType == "" {
			out.PaymentType = r.PaymentType
		}
		if out.CustomerName == "" {
			out.CustomerName = r.CustomerName
		}
		if out.CustomerNumber == 0 {
			out.CustomerNumber = r.CustomerNumber
		}
		if out.CustomerEmail == "" {
			out.CustomerEmail = r.CustomerEmail
		}
		if out.CustomerAddress == "" {
			out.CustomerAddress = r.CustomerAddress
		}
		if out.Street == "" {
			out.Street = r.Street
		}
		if out.City == "" {
			out.City = r.City
		}
		if out.State == "" {
			out.State = r.State
		}
		if out.Zipcode == 0 {
			out.Zipcode = r.Zipcode
		}
	}
	return out
}

// RemoveFalseErrorRecords drops error records that are noise rather than
/// true failures: support-thread replies whose order id already merged into a
// successful transaction, and messages tagged as not being transaction
// emails at all.
func RemoveFalseErrorRecords(transactions, errorRecords []*model.TransactionRecord) []*model.TransactionRecord {
	mergedIDs := make(map[string]struct{})
	for _, r := range transactions {
		if r.OrderID != "" {
			mergedIDs[r.OrderID] = struct{}{}
		}
	}

	var kept []*model.TransactionRecord
	for _, r := range errorRecords {
		if _, dup := mergedIDs[r.OrderID]; dup && r.OrderID != "" {
			continue
		}
		if r.HasErrorTag(model.ErrNotTransactionEmail) {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// AggregateCustomerHistory rolls non-erroneous transactions into customer
// records grouped by (store, key). Records missing the key field pass
// through as individual identities rather than being grouped; the final
// phone merge may still reconcile them.
func AggregateCustomerHistory(records []*model.TransactionRecord, key model.KeyType, threshold float64) []*model.CustomerRecord {
	combined := make(map[string]*model.CustomerRecord)
	var order []string
	var keyless []*model.CustomerRecord

	for _, r := range records {
		k := groupKey(r, key)
		if k == "" {
			c := model.NewCustomerRecord(r.StoreName, r.CustomerNumber)
			addTransaction(c, r)
			keyless = append(keyless, c)
			continue
		}
		c, ok := combined[k]
		if !ok {
			c = model.NewCustomerRecord(r.StoreName, r.CustomerNumber)
			combined[k] = c
			order = append(order, k)
		}
		addTransaction(c, r)
	}

	out := make([]*model.CustomerRecord, 0, len(order)+len(keyless))
	for _, k := range order {
		out = append(out, combined[k])
	}
	out = append(out, keyless...)
	return FormatCustomerRecords(out, threshold)
}

func groupKey(r *model.TransactionRecord, key model.KeyType) string {
	switch key {
	case model.KeyName:
		if r.CustomerName == "" {
			return ""
		}
		return fmt.Sprintf("%s-%s", r.StoreName, r.CustomerName)
	default:
		if r.CustomerNumber == 0 {
			return ""
		}
		return fmt.Sprintf("%s-%d", r.StoreName, r.CustomerNumber)
	}
}

func addTransaction(c *model.CustomerRecord, r *model.TransactionRecord) {
	c.Platforms.Add(string(r.Platform))
	c.CustomerNames.Add(r.CustomerName)
	c.CustomerAddresses.Add(r.CustomerAddress)
	c.CustomerEmails.Add(r.CustomerEmail)
	c.ExtendDates(r.OrderDate)
	c.OrderCount++
	c.TotalSpend += r.OrderAmount
}

// MergeCustomersByPhone reconciles customer records across data sources,
// grouping on (store, phone). Records without a phone number pass through
// unmerged and are kept as distinct identities. Set-valued fields are
// unioned, counters summed, and date ranges extended; null placeholders are
// stripped before finalizing.
func MergeCustomersByPhone(records []*model.CustomerRecord, threshold float64) []*model.CustomerRecord {
	combined := make(map[string]*model.CustomerRecord)
	var order []string
	var nullPhone []*model.CustomerRecord

	for _, r := range records {
		if r.CustomerNumber == 0 {
			nullPhone = append(nullPhone, r)
			continue
		}
		k := fmt.Sprintf("%s-%d", r.StoreName, r.CustomerNumber)
		c, ok := combined[k]
		if !ok {
			c = model.NewCustomerRecord(r.StoreName, r.CustomerNumber)
			combined[k] = c
			order = append(order, k)
		}
		c.Platforms.AddAll(r.Platforms)
		c.CustomerNames.AddAll(r.CustomerNames)
		c.CustomerAddresses.AddAll(r.CustomerAddresses)
		c.CustomerEmails.AddAll(r.CustomerEmails)
		c.OrderCount += r.OrderCount
		c.TotalSpend += r.TotalSpend
		c.ExtendDates(r.FirstOrderDate)
		c.ExtendDates(r.LastOrderDate)

		c.Platforms.Remove("")
		c.CustomerNames.Remove("")
		c.CustomerAddresses.Remove("")
		c.CustomerEmails.Remove("")
	}

	out := make([]*model.CustomerRecord, 0, len(order)+len(nullPhone))
	for _, k := range order {
		out = append(out, combined[k])
	}
	out = append(out, nullPhone...)
	return FormatCustomerRecords(out, threshold)
}

// FormatCustomerRecords finalizes records for output: null placeholders are
// pruned from every set, near-duplicate names and addresses collapsed, name
// subsets removed, and total spend rounded to cents. Records are finalized
// in place and returned for convenience. Idempotent.
func FormatCustomerRecords(records []*model.CustomerRecord, threshold float64) []*model.CustomerRecord {
	for _, r := range records {
		names := normalize.RemoveSimilarValues(pruneEmpty(r.CustomerNames.Values()), threshold)
		r.CustomerNames.Replace(normalize.RemoveSubsets(names))
		r.CustomerAddresses.Replace(normalize.RemoveSimilarValues(pruneEmpty(r.CustomerAddresses.Values()), threshold))
		r.CustomerEmails.Replace(pruneEmpty(r.CustomerEmails.Values()))
		r.Platforms.Replace(pruneEmpty(r.Platforms.Values()))
		r.TotalSpend = math.Round(r.TotalSpend*100) / 100
	}
	return records
}

// InformationMissing reports whether a record carries no identifying
// information at all (no phone, names, addresses, or emails once null
// placeholders are removed). Such records are uninformative and dropped.
func InformationMissing(r *model.CustomerRecord) bool {
	r.CustomerNames.Remove("")
	r.CustomerAddresses.Remove("")
	r.CustomerEmails.Remove("")
	return r.CustomerNumber == 0 &&
		r.CustomerNames.Len() == 0 &&
		r.CustomerAddresses.Len() == 0 &&
		r.CustomerEmails.Len() == 0
}

func pruneEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
