package fetcher

import (
	"fmt"
	"strings"

	"github.com/nao1215/aopsharvest/internal/model"
)

// DefaultBaseURL is the wiki index every problem page lives under.
const DefaultBaseURL = "https://artofproblemsolving.com/wiki/index.php"

// BuildURL returns the canonical problem page URL.
//
// Example: BuildURL(2003, 23, model.VariantAMC8) returns
// "https://artofproblemsolving.com/wiki/index.php/2003_AMC_8_Problems/Problem_23".
func BuildURL(year, number int, variant model.Variant) string {
	return BuildURLWithBase(DefaultBaseURL, year, number, variant)
}

// BuildURLWithBase is BuildURL against a different wiki index.
// A trailing slash on base is ignored.
func BuildURLWithBase(base string, year, number int, variant model.Variant) string {
	return fmt.Sprintf("%s/%d_%s_Problems/Problem_%d",
		strings.TrimSuffix(base, "/"), year, variant, number)
}
