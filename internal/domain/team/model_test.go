package team

import "testing"

func TestParseKind(t *testing.T) {
	t.Parallel()

	valid := map[string]Kind{
		"club":          KindClub,
		" Clubs ":       KindClub,
		"international": KindInternational,
		"INTL":          KindInternational,
	}
	for in, want := range valid {
		got, err := ParseKind(in)
		if err != nil {
			t.Fatalf("ParseKind(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseKind(%q)=%s want %s", in, got, want)
		}
	}

	if _, err := ParseKind("national"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestTeamValidate(t *testing.T) {
	t.Parallel()

	ok := Team{Kind: KindClub, Name: "Bayern Munich", League: "German", Rating: 4.5}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := (Team{Kind: KindClub}).Validate(); err == nil {
		t.Fatalf("expected error for missing name")
	}
	if err := (Team{Kind: KindInternational, Name: "Brazil", League: "German"}).Validate(); err == nil {
		t.Fatalf("expected error for international team with league")
	}
	if err := (Team{Kind: "moon", Name: "X"}).Validate(); err == nil {
		t.Fatalf("expected error for invalid kind")
	}
}
