package catalog

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultIDFormat is the ID minting convention used when none is configured.
const DefaultIDFormat = "abcd-j.{name}"

// dataladNamespace is the UUID namespace all minted dataset IDs live in,
// uuid5(NAMESPACE_DNS, "datalad.org").
var dataladNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("datalad.org"))

// MintDatasetID deterministically derives a version-5 UUID for a dataset
// that has no externally assigned identifier. The format string's {name}
// placeholder is instantiated with the tabby name field, so the same name
// always mints the same ID.
func MintDatasetID(name, format string) string {
	if strings.TrimSpace(format) == "" {
		format = DefaultIDFormat
	}
	raw := strings.ReplaceAll(format, "{name}", name)
	return uuid.NewSHA1(dataladNamespace, []byte(raw)).String()
}
