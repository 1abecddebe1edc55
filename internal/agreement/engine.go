// Package agreement renders rental agreements from the stored HTML template.
package agreement

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/valyala/fasttemplate"

	"rental-backend/internal/models"
)

const (
	startTag = "{{"
	endTag   = "}}"
)

// Placeholder names understood by the engine
const (
	ClientName         = "CLIENT_NAME"
	ClientPhone        = "CLIENT_PHONE"
	ClientAddress      = "CLIENT_ADDRESS"
	ProductName        = "PRODUCT_NAME"
	ProductDescription = "PRODUCT_DESCRIPTION"
	SerialNumber       = "SERIAL_NUMBER"
	PickupDate         = "PICKUP_DATE"
	EndDate            = "END_DATE"
	RentalRate         = "RENTAL_RATE"
	SecurityDeposit    = "SECURITY_DEPOSIT"
	DeliveryCharges    = "DELIVERY_CHARGES"
	TotalCharge        = "TOTAL_CHARGE"
	AgreementDate      = "AGREEMENT_DATE"
)

// Placeholders lists every recognized token in display order
var Placeholders = []string{
	ClientName, ClientPhone, ClientAddress,
	ProductName, ProductDescription, SerialNumber,
	PickupDate, EndDate,
	RentalRate, SecurityDeposit, DeliveryCharges, TotalCharge,
	AgreementDate,
}

var recognized = func() map[string]bool {
	m := make(map[string]bool, len(Placeholders))
	for _, p := range Placeholders {
		m[p] = true
	}
	return m
}()

// IsPlaceholder reports whether name is a recognized token
func IsPlaceholder(name string) bool {
	return recognized[name]
}

// Values maps placeholder names to display-ready strings
type Values map[string]string

func parse(content string) (*fasttemplate.Template, error) {
	t, err := fasttemplate.NewTemplate(content, startTag, endTag)
	if err != nil {
		return nil, models.NewValidationError("content", "template has an unclosed {{ placeholder")
	}
	return t, nil
}

// Validate checks that every "{{" in content is closed
func Validate(content string) error {
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("content", "template content is required")
	}
	_, err := parse(content)
	return err
}

// Render substitutes every recognized placeholder in content. Recognized
// placeholders missing from values render as empty strings. Anything else
// between braces is written back unchanged. Values are inserted verbatim,
// without HTML escaping.
func Render(content string, values Values) (string, error) {
	t, err := parse(content)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(content))
	_, err = t.ExecuteFunc(&b, func(w io.Writer, tag string) (int, error) {
		return writeTag(w, tag, values)
	})
	if err != nil {
		return "", fmt.Errorf("render agreement: %w", err)
	}
	return b.String(), nil
}

func writeTag(w io.Writer, tag string, values Values) (int, error) {
	// "{{A {{B}}" arrives as tag "A {{B"; only the innermost one is a candidate
	if i := strings.LastIndex(tag, startTag); i >= 0 {
		n, err := io.WriteString(w, startTag+tag[:i])
		if err != nil {
			return n, err
		}
		m, err := writeTag(w, tag[i+len(startTag):], values)
		return n + m, err
	}
	if recognized[tag] {
		return io.WriteString(w, values[tag])
	}
	return io.WriteString(w, startTag+tag+endTag)
}

// Inspect lists the placeholders found in content, split into recognized
// and unknown names. Each name appears once, sorted.
func Inspect(content string) (found, unknown []string, err error) {
	t, err := parse(content)
	if err != nil {
		return nil, nil, err
	}

	seen := map[string]bool{}
	_, err = t.ExecuteFunc(io.Discard, func(w io.Writer, tag string) (int, error) {
		if i := strings.LastIndex(tag, startTag); i >= 0 {
			tag = tag[i+len(startTag):]
		}
		seen[tag] = true
		return 0, nil
	})
	if err != nil {
		return nil, nil, err
	}

	for name := range seen {
		if recognized[name] {
			found = append(found, name)
		} else {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(found)
	sort.Strings(unknown)
	return found, unknown, nil
}
