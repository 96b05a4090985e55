package entity

import "strings"

// StageKey is a canonical funnel step. Events store whatever label the
// pipeline used at the time; keys are what aggregations reason about.
type StageKey string

const (
	StageNew           StageKey = "NEW"
	StageCallRequested StageKey = "CALL_REQUESTED"
	StageCallAttempt   StageKey = "CALL_ATTEMPT"
	StageCallAnswered  StageKey = "CALL_ANSWERED"
	StageSetterNoShow  StageKey = "SETTER_NO_SHOW"

	StageRV0Planned  StageKey = "RV0_PLANNED"
	StageRV0Honored  StageKey = "RV0_HONORED"
	StageRV0NoShow   StageKey = "RV0_NO_SHOW"
	StageRV0Canceled StageKey = "RV0_CANCELED"

	StageRV1Planned  StageKey = "RV1_PLANNED"
	StageRV1Honored  StageKey = "RV1_HONORED"
	StageRV1NoShow   StageKey = "RV1_NO_SHOW"
	StageRV1Canceled StageKey = "RV1_CANCELED"

	StageRV2Planned  StageKey = "RV2_PLANNED"
	StageRV2Honored  StageKey = "RV2_HONORED"
	StageRV2NoShow   StageKey = "RV2_NO_SHOW"
	StageRV2Canceled StageKey = "RV2_CANCELED"

	StageNotQualified StageKey = "NOT_QUALIFIED"
	StageLost         StageKey = "LOST"
	StageWon          StageKey = "WON"

	// StageUnmapped is the bucket for labels nobody recognizes anymore.
	// Normalization is total: unknown input lands here, it never fails.
	StageUnmapped StageKey = "UNMAPPED"
)

var canonicalKeys = []StageKey{
	StageNew, StageCallRequested, StageCallAttempt, StageCallAnswered, StageSetterNoShow,
	StageRV0Planned, StageRV0Honored, StageRV0NoShow, StageRV0Canceled,
	StageRV1Planned, StageRV1Honored, StageRV1NoShow, StageRV1Canceled,
	StageRV2Planned, StageRV2Honored, StageRV2NoShow, StageRV2Canceled,
	StageNotQualified, StageLost, StageWon, StageUnmapped,
}

// legacySpellings lists every stage label ever seen in production event rows:
// retired enum values and the accented board labels used before the 2023 enum
// cleanup. Kept verbatim so historical rows stay exact-matchable in SQL.
var legacySpellings = []struct {
	Label string
	Key   StageKey
}{
	{"Nouveau", StageNew},
	{"Nouveau lead", StageNew},
	{"Lead entrant", StageNew},
	{"Demande d'appel", StageCallRequested},
	{"Rappel demandé", StageCallRequested},
	{"Tentative d'appel", StageCallAttempt},
	{"Appel tenté", StageCallAttempt},
	{"Appel répondu", StageCallAnswered},
	{"Contact établi", StageCallAnswered},
	{"No-show setter", StageSetterNoShow},

	{"RV0 planifié", StageRV0Planned},
	{"RDV0 planifié", StageRV0Planned},
	{"RV0 honoré", StageRV0Honored},
	{"RDV0 honoré", StageRV0Honored},
	{"RV0 no-show", StageRV0NoShow},
	{"RV0 annulé", StageRV0Canceled},

	{"RV1 planifié", StageRV1Planned},
	{"RDV1 planifié", StageRV1Planned},
	{"RDV 1 planifié", StageRV1Planned},
	{"RV1 honoré", StageRV1Honored},
	{"RDV1 honoré", StageRV1Honored},
	{"RV1 no-show", StageRV1NoShow},
	{"RV1 annulé", StageRV1Canceled},
	{"RDV1 annulé", StageRV1Canceled},

	{"RV2 planifié", StageRV2Planned},
	{"RDV2 planifié", StageRV2Planned},
	{"RV2 honoré", StageRV2Honored},
	{"RV2 no-show", StageRV2NoShow},
	{"RV2 annulé", StageRV2Canceled},

	{"Non qualifié", StageNotQualified},
	{"Disqualifié", StageNotQualified},
	{"Perdu", StageLost},
	{"Gagné", StageWon},
	{"Vendu", StageWon},
	{"Closed won", StageWon},
}

// aliasTable is keyed by folded spelling, so lookups survive casing, accents
// and separator drift.
var aliasTable = func() map[string]StageKey {
	table := make(map[string]StageKey)
	for _, key := range canonicalKeys {
		table[foldLabel(string(key))] = key
	}
	for _, s := range legacySpellings {
		table[foldLabel(s.Label)] = s.Key
	}
	return table
}()

var accentFolding = strings.NewReplacer(
	"à", "a", "â", "a", "ä", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"î", "i", "ï", "i",
	"ô", "o", "ö", "o",
	"ù", "u", "û", "u", "ü", "u",
	"ç", "c",
	"'", " ", "’", " ", "-", " ", "_", " ", "/", " ",
)

func foldLabel(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = accentFolding.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeStage maps any historical stage spelling to its canonical key.
// Total and idempotent: unknown labels map to StageUnmapped, canonical keys
// map to themselves.
func NormalizeStage(raw string) StageKey {
	if key, ok := aliasTable[foldLabel(raw)]; ok {
		return key
	}
	return StageUnmapped
}

// Stage is one configurable pipeline step. The WON flag lives in data, not in
// code: the set of winning stages is resolved per request through the catalog.
type Stage struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Position int    `json:"position"`
	IsActive bool   `json:"is_active"`
	IsWon    bool   `json:"is_won"`
}

// StageCatalog resolves canonical keys to the full set of event labels that
// count for them: canonical key strings, every legacy spelling, and whatever
// labels the stages table currently configures. Built once per request so
// pipeline edits are picked up without restarts.
type StageCatalog struct {
	labelsByKey map[StageKey][]string
}

func NewStageCatalog(stages []Stage) *StageCatalog {
	byKey := make(map[StageKey][]string)
	seen := make(map[StageKey]map[string]bool)

	add := func(key StageKey, label string) {
		if seen[key] == nil {
			seen[key] = make(map[string]bool)
		}
		if seen[key][label] {
			return
		}
		seen[key][label] = true
		byKey[key] = append(byKey[key], label)
	}

	for _, key := range canonicalKeys {
		add(key, string(key))
	}
	for _, s := range legacySpellings {
		add(s.Key, s.Label)
	}
	for _, st := range stages {
		key := NormalizeStage(st.Label)
		if st.IsWon {
			key = StageWon
		}
		add(key, st.Label)
	}
	return &StageCatalog{labelsByKey: byKey}
}

// Labels returns every event label that should count for the given keys.
func (c *StageCatalog) Labels(keys ...StageKey) []string {
	var out []string
	for _, key := range keys {
		out = append(out, c.labelsByKey[key]...)
	}
	return out
}

// WonLabels is the dynamic WON stage set, resolved from pipeline config and
// never hard-coded at call sites.
func (c *StageCatalog) WonLabels() []string {
	return c.Labels(StageWon)
}
