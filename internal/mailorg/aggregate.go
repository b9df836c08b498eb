package mailorg

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var addressToken = regexp.MustCompile(`[\w.-]+@[\w.-]+`)

// ExtractAddress returns the first address-like token of s, lower-cased.
func ExtractAddress(s string) (string, bool) {
	token := addressToken.FindString(s)
	if token == "" {
		return "", false
	}
	return strings.ToLower(token), true
}

// SplitAddressList splits a header value on commas. Quoted display names
// containing commas are not supported.
func SplitAddressList(field string) []string {
	var out []string
	for _, item := range strings.Split(field, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// DomainOf returns the part after the @ of an address with exactly one @.
func DomainOf(address string) (string, bool) {
	local, domain, ok := strings.Cut(address, "@")
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") {
		return "", false
	}
	return strings.ToLower(domain), true
}

// NameFromAddress derives a first and last name from local parts such as
// john.smith or john_smith. Other shapes yield blank names.
func NameFromAddress(address string) (first, last string) {
	local, _, _ := strings.Cut(address, "@")
	var parts []string
	switch {
	case strings.Contains(local, "."):
		parts = strings.Split(local, ".")
	case strings.Contains(local, "_"):
		parts = strings.Split(local, "_")
	}
	if len(parts) < 2 {
		return "", ""
	}
	return capitalize(parts[0]), capitalize(parts[1])
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// tally accumulates counter deltas for one message, keeping first-seen order.
type tally struct {
	contacts     map[string]*ContactDelta
	domains      map[string]*DomainDelta
	contactOrder []string
	domainOrder  []string
}

// Aggregate computes the contact and domain counter changes for a message
// from its sender and recipient header values. Every occurrence counts, so
// an address listed in both To and Cc is counted twice.
func Aggregate(from string, recipientFields ...string) ([]ContactDelta, []DomainDelta) {
	t := &tally{
		contacts: make(map[string]*ContactDelta),
		domains:  make(map[string]*DomainDelta),
	}
	for _, item := range SplitAddressList(from) {
		t.add(item, true)
	}
	for _, field := range recipientFields {
		for _, item := range SplitAddressList(field) {
			t.add(item, false)
		}
	}

	contacts := make([]ContactDelta, 0, len(t.contactOrder))
	for _, email := range t.contactOrder {
		contacts = append(contacts, *t.contacts[email])
	}
	domains := make([]DomainDelta, 0, len(t.domainOrder))
	for _, name := range t.domainOrder {
		domains = append(domains, *t.domains[name])
	}
	return contacts, domains
}

func (t *tally) add(item string, sent bool) {
	email, ok := ExtractAddress(item)
	if !ok {
		return
	}

	c, ok := t.contacts[email]
	if !ok {
		first, last := NameFromAddress(email)
		c = &ContactDelta{Email: email, FirstName: first, LastName: last}
		t.contacts[email] = c
		t.contactOrder = append(t.contactOrder, email)
	}

	name, hasDomain := DomainOf(email)
	var d *DomainDelta
	if hasDomain {
		if d, ok = t.domains[name]; !ok {
			d = &DomainDelta{Name: name}
			t.domains[name] = d
			t.domainOrder = append(t.domainOrder, name)
		}
	}

	if sent {
		c.Sent++
		if d != nil {
			d.Sent++
		}
		return
	}
	c.Received++
	if d != nil {
		d.Received++
	}
}
