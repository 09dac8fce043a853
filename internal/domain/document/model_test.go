package document

import (
	"strings"
	"testing"
)

func TestKeyDerivation(t *testing.T) {
	cases := []struct {
		name string
		key  Key
		want string
	}{
		{name: "team", key: TeamSearchKey("Barcelona"), want: "teams/team_Barcelona"},
		{name: "team with spaces", key: TeamSearchKey(" Real Madrid "), want: "teams/team_Real%20Madrid"},
		{name: "squad", key: SquadKey("418", "2023"), want: "players/players_418_2023"},
		{name: "career", key: CareerKey("418", "28003", "2023"), want: "player/418_28003_2023"},
		{name: "season", key: SeasonStatsKey("418", "28003", "2019"), want: "player-season/418_28003_2019"},
		{name: "history", key: MarketHistoryKey("28003"), want: "player-history/28003"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.key.String(); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
			if !tc.key.Valid() {
				t.Fatalf("expected key %q to be valid", tc.key)
			}
		})
	}
}

func TestKeyDerivation_IsDeterministic(t *testing.T) {
	if CareerKey("1", "2", "3") != CareerKey("1", "2", "3") {
		t.Fatalf("expected identical keys for identical input")
	}
	if SeasonStatsKey("1", "2", "2024") == SeasonStatsKey("1", "2", "2023") {
		t.Fatalf("expected per-season keys to differ by season")
	}
}

func TestKeyDerivation_EscapesTraversal(t *testing.T) {
	for _, input := range []string{"../../etc/passwd", "..", ".", `a\b`, ""} {
		key := MarketHistoryKey(input)
		if !key.Valid() {
			t.Fatalf("input %q produced invalid key %q", input, key)
		}
	}
	if got := TeamSearchKey("../x").Name; got != "team_..%2Fx" {
		t.Fatalf("unexpected escaped name %q", got)
	}
}

func TestKeyValid(t *testing.T) {
	if (Key{Namespace: NamespaceTeams, Name: "a/b"}).Valid() {
		t.Fatalf("expected separator to be rejected")
	}
	if (Key{Name: "x"}).Valid() {
		t.Fatalf("expected empty namespace to be rejected")
	}
}

func TestKeyDerivation_SeparatorInsideComponent(t *testing.T) {
	if CareerKey("1_2", "3", "2023") == CareerKey("1", "2_3", "2023") {
		t.Fatalf("expected underscore inside a component not to collide with the separator")
	}
	if got := SquadKey("a_b", "2023").Name; got != "players_a%5Fb_2023" {
		t.Fatalf("unexpected escaped name %q", got)
	}
}

func TestKeyDerivation_LongNamesAreBounded(t *testing.T) {
	long := strings.Repeat("Реал Мадрид ", 4)
	key := TeamSearchKey(long)

	if len(key.Name) > maxNameBytes {
		t.Fatalf("expected name of at most %d bytes, got %d", maxNameBytes, len(key.Name))
	}
	if !key.Valid() {
		t.Fatalf("expected bounded key %q to be valid", key)
	}
	if !strings.HasPrefix(key.Name, "team_%D0%A0") || !strings.Contains(key.Name, "%h") {
		t.Fatalf("expected readable prefix and digest marker, got %q", key.Name)
	}
	if key != TeamSearchKey(long) {
		t.Fatalf("expected bounded key to be deterministic")
	}
	if key == TeamSearchKey(long+"x") {
		t.Fatalf("expected different long names to produce different keys")
	}

	short := TeamSearchKey("Girona")
	if strings.Contains(short.Name, "%h") {
		t.Fatalf("expected short name to stay unhashed, got %q", short.Name)
	}
}
