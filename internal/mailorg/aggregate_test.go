package mailorg_test

import (
	"reflect"
	"testing"

	"mailorg/internal/mailorg"
)

func TestExtractAddress(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"alice@example.com", "alice@example.com", true},
		{"Alice Smith <Alice.Smith@Example.COM>", "alice.smith@example.com", true},
		{`"Ops" <ops-team@corp.example>`, "ops-team@corp.example", true},
		{"undisclosed-recipients:;", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := mailorg.ExtractAddress(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ExtractAddress(%q) = %q, %v, want %q, %v", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDomainOf(t *testing.T) {
	tests := []struct {
		address string
		want    string
		ok      bool
	}{
		{"bob@corp.example", "corp.example", true},
		{"bob@Corp.Example", "corp.example", true},
		{"bob", "", false},
		{"@corp.example", "", false},
		{"bob@", "", false},
		{"a@b@c", "", false},
	}
	for _, tt := range tests {
		got, ok := mailorg.DomainOf(tt.address)
		if got != tt.want || ok != tt.ok {
			t.Errorf("DomainOf(%q) = %q, %v, want %q, %v", tt.address, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNameFromAddress(t *testing.T) {
	tests := []struct {
		address     string
		first, last string
	}{
		{"john.smith@example.com", "John", "Smith"},
		{"JOHN.SMITH@example.com", "John", "Smith"},
		{"jane_doe@example.com", "Jane", "Doe"},
		{"a.b.c@example.com", "A", "B"},
		{"bob@example.com", "", ""},
		{"info@example.com", "", ""},
	}
	for _, tt := range tests {
		first, last := mailorg.NameFromAddress(tt.address)
		if first != tt.first || last != tt.last {
			t.Errorf("NameFromAddress(%q) = %q %q, want %q %q", tt.address, first, last, tt.first, tt.last)
		}
	}
}

func TestSplitAddressList(t *testing.T) {
	got := mailorg.SplitAddressList(" a@x.org, ,Bob <b@y.org>,")
	want := []string{"a@x.org", "Bob <b@y.org>"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitAddressList() = %q, want %q", got, want)
	}
}

func TestAggregate(t *testing.T) {
	contacts, domains := mailorg.Aggregate(
		"John Smith <john.smith@example.com>",
		"bob@corp.example, carol@corp.example",
		"bob@corp.example",
		"",
	)

	wantContacts := []mailorg.ContactDelta{
		{Email: "john.smith@example.com", FirstName: "John", LastName: "Smith", Sent: 1},
		{Email: "bob@corp.example", Received: 2},
		{Email: "carol@corp.example", Received: 1},
	}
	if !reflect.DeepEqual(contacts, wantContacts) {
		t.Errorf("contacts = %+v, want %+v", contacts, wantContacts)
	}

	wantDomains := []mailorg.DomainDelta{
		{Name: "example.com", Sent: 1},
		{Name: "corp.example", Received: 3},
	}
	if !reflect.DeepEqual(domains, wantDomains) {
		t.Errorf("domains = %+v, want %+v", domains, wantDomains)
	}
}

func TestAggregate_SkipsUnparseableItems(t *testing.T) {
	contacts, domains := mailorg.Aggregate("", "undisclosed-recipients:;")
	if len(contacts) != 0 || len(domains) != 0 {
		t.Errorf("got %d contacts and %d domains, want none", len(contacts), len(domains))
	}
}
