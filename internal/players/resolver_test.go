package players

import "testing"

func TestSurnameContainsResolverMatches(t *testing.T) {
	r := NewSurnameContainsResolver()

	cases := []struct {
		rowName string
		player  string
		want    bool
	}{
		{"Sinner J.", "Jannik Sinner", true},
		{"sinner j.", "Jannik Sinner", true},
		{"Alcaraz C.", "Jannik Sinner", false},
		{"De Minaur A.", "Alex De Minaur", true},
		{"Djokovic N.", "Novak Djokovic", true},
		// Known substring collision the policy tolerates
		{"Johnson S.", "Magnus Johnsons", false},
		{"Johnsons M.", "Steve Johnson", true},
		{"", "Jannik Sinner", false},
	}

	for _, tc := range cases {
		if got := r.Matches(tc.rowName, tc.player); got != tc.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", tc.rowName, tc.player, got, tc.want)
		}
	}
}

func TestSurnameContainsResolverKey(t *testing.T) {
	r := NewSurnameContainsResolver()
	if key := r.Key("Carlos Alcaraz"); key != "alcaraz" {
		t.Errorf("Key = %q, want alcaraz", key)
	}
	if key := r.Key(""); key != "" {
		t.Errorf("Key of empty name = %q, want empty", key)
	}
}
