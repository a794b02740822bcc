package topic

import "testing"

func TestValidateName(t *testing.T) {
	valid := []string{"a/b/c", "sensors/temp", "$SYS/broker/uptime"}
	for _, name := range valid {
		if err := ValidateName(name); err != nil {
			t.Errorf("ValidateName(%q) = %v, want nil", name, err)
		}
	}
	invalid := []string{"", "a/+/b", "a/#"}
	for _, name := range invalid {
		if err := ValidateName(name); err == nil {
			t.Errorf("ValidateName(%q) = nil, want error", name)
		}
	}
}

func TestValidateFilter(t *testing.T) {
	valid := []string{"a/b/c", "a/+/c", "a/#", "#", "+/+/+", "sport/tennis/+"}
	for _, f := range valid {
		if err := ValidateFilter(f); err != nil {
			t.Errorf("ValidateFilter(%q) = %v, want nil", f, err)
		}
	}
	invalid := []string{"", "a/#/c", "a/b#", "a/+b"}
	for _, f := range invalid {
		if err := ValidateFilter(f); err == nil {
			t.Errorf("ValidateFilter(%q) = nil, want error", f)
		}
	}
}

func TestMatches(t *testing.T) {
	cases := []struct {
		filter, name string
		want         bool
	}{
		{"sport/tennis/+", "sport/tennis/player1", true},
		{"sport/tennis/+", "sport/tennis/player1/ranking", false},
		{"sport/#", "sport/tennis/player1", true},
		{"sport/#", "sport", true},
		{"#", "anything/at/all", true},
		{"+/+", "a/b", true},
		{"+/+", "a/b/c", false},
		{"sport/tennis/player1", "sport/tennis/player2", false},
	}
	for _, c := range cases {
		if got := Matches(c.filter, c.name); got != c.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", c.filter, c.name, got, c.want)
		}
	}
}
