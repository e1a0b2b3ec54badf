package compaction

import "github.com/hupe1980/agentcore/core"

// minOldMessages mirrors the source's MIN_OLD_MESSAGES: compacting fewer
// than this many old messages doesn't meaningfully reduce token count.
const minOldMessages = 3

// Detector decides whether a history has grown large enough to compact.
type Detector struct {
	cfg     Config
	counter Counter
}

// Counter is the subset of tokencount.Counter the detector and compactor
// need; declared locally so this package doesn't import tokencount directly,
// keeping the counter strategy pluggable by callers.
type Counter interface {
	CountMessages(messages []core.ConversationMessage, model string) int
}

// NewDetector builds a Detector over the given config and counter.
func NewDetector(cfg Config, counter Counter) *Detector {
	return &Detector{cfg: cfg, counter: counter}
}

// ShouldCompact implements the Detect step of spec §4.3: compute the usable
// budget, and trigger only if the current token count exceeds
// usable*threshold AND there are enough old messages to make compaction
// worthwhile.
func (d *Detector) ShouldCompact(history []core.ConversationMessage, model string) (should bool, currentTokens, thresholdTokens int) {
	currentTokens = d.counter.CountMessages(history, model)

	usable := d.cfg.UsableTokens(model)
	if usable <= 0 {
		return false, currentTokens, 0
	}
	thresholdTokens = int(float64(usable) * d.cfg.Threshold)

	if !d.cfg.Enabled {
		return false, currentTokens, thresholdTokens
	}
	if currentTokens <= thresholdTokens {
		return false, currentTokens, thresholdTokens
	}

	_, summarizable, _ := Partition(history, d.cfg.ProtectRecent)
	if len(summarizable) < minOldMessages {
		return false, currentTokens, thresholdTokens
	}

	return true, currentTokens, thresholdTokens
}

// Partition splits history into (systems, summarizable, protected) per
// spec §4.3: all system-role messages, then non-system messages excluding
// the last protectRecent entries, then those last protectRecent entries.
func Partition(history []core.ConversationMessage, protectRecent int) (systems, summarizable, protected []core.ConversationMessage) {
	var nonSystem []core.ConversationMessage
	for _, m := range history {
		if m.Role == core.RoleSystem {
			systems = append(systems, m)
		} else {
			nonSystem = append(nonSystem, m)
		}
	}

	if protectRecent < 0 {
		protectRecent = 0
	}
	if protectRecent >= len(nonSystem) {
		return systems, nil, nonSystem
	}

	splitPoint := len(nonSystem) - protectRecent
	summarizable = nonSystem[:splitPoint]
	protected = nonSystem[splitPoint:]
	return systems, summarizable, protected
}
