package document

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"strings"
)

// maxNameBytes keeps file backends well under the common 255-byte filename limit
// once the extension and temp-file affixes are added.
const maxNameBytes = 200

var (
	ErrNotFound = errors.New("document not found")
	ErrCorrupt  = errors.New("document is corrupt")
)

// Namespace groups documents of one entity type.
type Namespace string

const (
	NamespaceTeams         Namespace = "teams"
	NamespaceSquads        Namespace = "players"
	NamespaceCareers       Namespace = "player"
	NamespaceSeasonStats   Namespace = "player-season"
	NamespaceMarketHistory Namespace = "player-history"
)

// Raw is an undecoded provider payload.
type Raw = map[string]any

// Key addresses one cached document. Name never contains a path separator.
type Key struct {
	Namespace Namespace
	Name      string
}

func (k Key) String() string {
	return string(k.Namespace) + "/" + k.Name
}

// Valid reports whether the key can be stored by every backend.
func (k Key) Valid() bool {
	if k.Namespace == "" || k.Name == "" || k.Name == "." || k.Name == ".." {
		return false
	}
	return !strings.ContainsAny(k.Name, `/\`)
}

// Repository persists JSON documents by key. Written documents are never expired.
type Repository interface {
	Exists(ctx context.Context, key Key) (bool, error)
	// Read decodes the stored document into target. It returns ErrNotFound when
	// the key was never written and ErrCorrupt when the bytes cannot be decoded.
	Read(ctx context.Context, key Key, target any) error
	Write(ctx context.Context, key Key, value any) error
}

func TeamSearchKey(teamName string) Key {
	return Key{Namespace: NamespaceTeams, Name: join("team", component(teamName))}
}

func SquadKey(teamID, seasonYear string) Key {
	return Key{Namespace: NamespaceSquads, Name: join("players", component(teamID), component(seasonYear))}
}

func CareerKey(teamID, playerID, seasonYear string) Key {
	return Key{Namespace: NamespaceCareers, Name: join(component(teamID), component(playerID), component(seasonYear))}
}

// SeasonStatsKey addresses one aggregated season, keyed by the season it describes.
func SeasonStatsKey(teamID, playerID, season string) Key {
	return Key{Namespace: NamespaceSeasonStats, Name: join(component(teamID), component(playerID), component(season))}
}

func MarketHistoryKey(playerID string) Key {
	return Key{Namespace: NamespaceMarketHistory, Name: join(component(playerID))}
}

// join separates escaped components with "_", which component always escapes.
// Names longer than maxNameBytes keep a readable prefix followed by "%h" and
// the sha256 of the full name. Escaped text never contains "%h".
func join(parts ...string) string {
	name := strings.Join(parts, "_")
	if len(name) <= maxNameBytes {
		return name
	}

	sum := sha256.Sum256([]byte(name))
	digest := hex.EncodeToString(sum[:])
	cut := maxNameBytes - len(digest) - 2
	if i := strings.LastIndexByte(name[:cut], '%'); i >= 0 && i > cut-3 {
		cut = i
	}
	return name[:cut] + "%h" + digest
}

// component escapes user input so it stays a single path segment and never
// contains the join separator.
func component(value string) string {
	escaped := strings.ReplaceAll(url.PathEscape(strings.TrimSpace(value)), "_", "%5F")
	switch escaped {
	case "":
		// a trimmed value is never a lone space
		return "%20"
	case ".", "..":
		return strings.ReplaceAll(escaped, ".", "%2E")
	}
	return escaped
}
