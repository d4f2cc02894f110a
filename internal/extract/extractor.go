// Package extract holds the per-platform extractors that turn raw order
// emails and CSV exports into transaction and customer records.
package extract

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/Acehaidrey/acelife/internal/mailbox"
	"github.com/Acehaidrey/acelife/internal/merge"
	"github.com/Acehaidrey/acelife/internal/model"
	"github.com/Acehaidrey/acelife/internal/normalize"
)

// CustomerInput carries whichever source a platform derives customer
// records from: parsed transactions for email platforms, CSV exports for
// POS platforms.
type CustomerInput struct {
	Transactions []*model.TransactionRecord
	CSVPath      string
	// CompanionCSV is the second export file for platforms that split
	// customer data across two reports (Menufy addresses + emails).
	CompanionCSV string
	// Store overrides the store identity for CSV exports that don't carry
	// one per row.
	Store model.Store
	// Threshold is the similarity cutoff used when formatting records;
	// zero means the default.
	Threshold float64
}

func (in CustomerInput) threshold() float64 {
	if in.Threshold == 0 {
		return normalize.SimilarityThreshold
	}
	return in.Threshold
}

// Extractor is the per-platform capability contract. ExtractTransaction
// parses one mail message; platforms with no per-email transaction signal
// (Toast, Brygid, Speedline, Menufy) return nil from it and derive customer
// records from CSV exports instead.
type Extractor interface {
	ExtractTransaction(msg *mailbox.Message) *model.TransactionRecord
	ExtractCustomers(in CustomerInput) ([]*model.CustomerRecord, error)
}

// registry maps platform tags to their extractor implementations.
var registry = map[model.Platform]Extractor{
	model.PlatformSlice:     &Slice{},
	model.PlatformDoordash:  &Doordash{},
	model.PlatformGrubhub:   &Grubhub{},
	model.PlatformMenustar:  &Menustar{},
	model.PlatformEatstreet: &Eatstreet{},
	model.PlatformMenufy:    &Menufy{},
	model.PlatformToast:     &Toast{},
	model.PlatformBrygid:    &Brygid{},
	model.PlatformSpeedline: &Speedline{},
}

// ForPlatform returns the extractor registered for p. Unsupported platforms
// are a configuration error and abort the run.
func ForPlatform(p model.Platform) (Extractor, error) {
	e, ok := registry[p]
	if !ok {
		return nil, eris.Errorf("extract: unsupported platform: %s", p)
	}
	return e, nil
}

var archiveNameRe = regexp.MustCompile(`([^/]+)\.(mbox|csv)$`)

// PlatformFromPath infers the platform from an input filename: the base
// name with any "Orders-" label prefix dropped, truncated at the first
// dash, uppercased. Menufy's exports are recognized by their fixed report
// names instead.
func PlatformFromPath(path string) (model.Platform, error) {
	if path == "" {
		return "", eris.New("extract: empty input path")
	}
	lower := strings.ToLower(path)
	if strings.Contains(lower, "customer_email") || strings.Contains(lower, "delivery_address") {
		return model.PlatformMenufy, nil
	}

	m := archiveNameRe.FindStringSubmatch(filepath.ToSlash(path))
	if m == nil {
		return "", eris.Errorf("extract: cannot infer platform from %s", path)
	}
	name := strings.TrimPrefix(m[1], "Orders-")
	if i := strings.Index(name, "-"); i >= 0 {
		name = name[:i]
	}

	p := model.Platform(strings.ToUpper(name))
	if _, ok := registry[p]; !ok {
		return "", eris.Errorf("extract: unsupported platform: %s", p)
	}
	return p, nil
}

// aggregateClean filters out erroneous transactions and rolls the rest into
// customer records. Shared by every email-based extractor.
func aggregateClean(in CustomerInput, key model.KeyType) []*model.CustomerRecord {
	var clean []*model.TransactionRecord
	for _, r := range in.Transactions {
		if !r.Error {
			clean = append(clean, r)
		}
	}
	return merge.AggregateCustomerHistory(clean, key, in.threshold())
}
