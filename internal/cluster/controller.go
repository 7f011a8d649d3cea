package cluster

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/stdforge/stdforge/internal/classifier"
	"github.com/stdforge/stdforge/internal/practice"
)

// defaultMaxAttempts bounds the classification loop: one initial attempt
// plus up to four repair rounds.
const defaultMaxAttempts = 5

// Options tunes the controller.
type Options struct {
	// MaxAttempts is the total number of classifier calls allowed,
	// including the initial classification. Zero means the default of 5.
	MaxAttempts int
	// KeywordTriggers and KeywordGroup encode the business override: any
	// item whose text contains one of the trigger substrings must land in
	// the named group, ranked above all other classification signals.
	KeywordTriggers []string
	KeywordGroup    string
}

// Stats summarizes what the repair loop had to do.
type Stats struct {
	Attempts          int
	DuplicatesRemoved int
	UnknownDropped    int
	RepairedItems     int
	FallbackItems     int
}

// Controller runs the clustering state machine: build prompt, await
// response, validate, repair up to the attempt bound, finalize. The only
// injected non-determinism in the whole pipeline is its random duplicate
// tie-break; callers needing reproducibility seed the rand source.
type Controller struct {
	classifier classifier.Classifier
	rng        *rand.Rand
	opts       Options
}

// New constructs a controller. A nil rng is seeded from the clock.
func New(c classifier.Classifier, rng *rand.Rand, opts Options) *Controller {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Controller{classifier: c, rng: rng, opts: opts}
}

// Run groups the items and repairs the grouping until every item is in
// exactly one group. It always terminates: after MaxAttempts classifier
// calls, whatever is still missing goes into the fallback bucket. A
// malformed initial response is a hard error; malformed repair responses
// are swallowed and simply contribute nothing that round.
func (c *Controller) Run(ctx context.Context, items []Item) (Mapping, Stats, error) {
	var stats Stats

	prompt := buildPrompt(items, c.opts.KeywordTriggers, c.opts.KeywordGroup)
	response, err := c.classifier.ExecutePrompt(ctx, prompt)
	if err != nil {
		return Mapping{}, stats, fmt.Errorf("initial classification: %w", err)
	}
	mapping, err := parseMapping(response)
	if err != nil {
		return Mapping{}, stats, fmt.Errorf("initial classification: %w", err)
	}
	stats.Attempts = 1

	known := make(map[string]struct{}, len(items))
	for _, it := range items {
		known[practice.Canon(it.Name)] = struct{}{}
	}

	for {
		stats.UnknownDropped += pruneUnknownMembers(&mapping, known)
		stats.DuplicatesRemoved += c.resolveDuplicates(&mapping)

		missing := missingItems(items, mapping)
		if len(missing) == 0 {
			break
		}
		if stats.Attempts >= c.opts.MaxAttempts {
			names := make([]string, len(missing))
			for i, it := range missing {
				names[i] = it.Name
			}
			mapping.Groups = append(mapping.Groups, Group{
				Name:        FallbackGroupName,
				Description: FallbackGroupDescription,
				Members:     names,
			})
			stats.FallbackItems = len(names)
			log.Warn().
				Int("count", len(names)).
				Strs("items", names).
				Msg("classification attempts exhausted, using fallback bucket")
			break
		}

		stats.Attempts++
		log.Info().
			Int("attempt", stats.Attempts).
			Int("missing", len(missing)).
			Msg("running repair round")

		repairResponse, err := c.classifier.ExecutePrompt(ctx, buildRepairPrompt(missing, mapping.Groups))
		if err != nil {
			log.Warn().Err(err).Int("attempt", stats.Attempts).Msg("repair round failed")
			continue
		}
		repair, err := parseMapping(repairResponse)
		if err != nil {
			// Unlike the initial response, a bad repair response is not
			// fatal; the round just contributes nothing.
			log.Warn().Err(err).Int("attempt", stats.Attempts).Msg("ignoring malformed repair response")
			continue
		}
		stats.RepairedItems += mergeRepair(&mapping, repair)
	}

	sortMembers(&mapping)
	return mapping, stats, nil
}

// pruneUnknownMembers drops member names that are not in the input item
// set. Protects the completeness invariant against classifiers inventing
// practices.
func pruneUnknownMembers(m *Mapping, known map[string]struct{}) int {
	dropped := 0
	for gi := range m.Groups {
		kept := m.Groups[gi].Members[:0]
		for _, member := range m.Groups[gi].Members {
			if _, ok := known[practice.Canon(member)]; ok {
				kept = append(kept, member)
			} else {
				dropped++
				log.Warn().
					Str("member", member).
					Str("group", m.Groups[gi].Name).
					Msg("dropping member that matches no input practice")
			}
		}
		m.Groups[gi].Members = kept
	}
	return dropped
}

// resolveDuplicates keeps each duplicated member in exactly one group,
// chosen uniformly at random among its occurrences. The randomness is
// arbitrary-but-fair on purpose; a deterministic first-wins pick would
// bias ownership toward earlier groups.
func (c *Controller) resolveDuplicates(m *Mapping) int {
	type occurrence struct{ group, index int }
	occurrences := make(map[string][]occurrence)
	var order []string
	for gi, g := range m.Groups {
		for mi, member := range g.Members {
			key := practice.Canon(member)
			if len(occurrences[key]) == 0 {
				order = append(order, key)
			}
			occurrences[key] = append(occurrences[key], occurrence{gi, mi})
		}
	}

	removed := 0
	drop := make(map[int]map[int]struct{})
	for _, key := range order {
		occ := occurrences[key]
		if len(occ) < 2 {
			continue
		}
		owner := occ[c.rng.Intn(len(occ))]
		log.Info().
			Str("member", key).
			Str("group", m.Groups[owner.group].Name).
			Int("occurrences", len(occ)).
			Msg("duplicate member resolved")
		for _, o := range occ {
			if o == owner {
				continue
			}
			if drop[o.group] == nil {
				drop[o.group] = make(map[int]struct{})
			}
			drop[o.group][o.index] = struct{}{}
			removed++
		}
	}
	if removed == 0 {
		return 0
	}

	for gi := range m.Groups {
		if len(drop[gi]) == 0 {
			continue
		}
		kept := m.Groups[gi].Members[:0]
		for mi, member := range m.Groups[gi].Members {
			if _, gone := drop[gi][mi]; !gone {
				kept = append(kept, member)
			}
		}
		m.Groups[gi].Members = kept
	}
	return removed
}

// missingItems returns, in input order, the items absent from the mapping.
func missingItems(items []Item, m Mapping) []Item {
	present := m.memberSet()
	var missing []Item
	for _, it := range items {
		if _, ok := present[practice.Canon(it.Name)]; !ok {
			missing = append(missing, it)
		}
	}
	return missing
}

// mergeRepair folds a repair response into the mapping. Groups are looked
// up by exact case-insensitive name; a sub-response naming a group that
// does not exist is discarded entirely. Members already present anywhere
// in the mapping are skipped. Returns the number of members added.
func mergeRepair(m *Mapping, repair Mapping) int {
	byName := make(map[string]int, len(m.Groups))
	for i, g := range m.Groups {
		byName[practice.Canon(g.Name)] = i
	}
	present := m.memberSet()

	added := 0
	for _, rg := range repair.Groups {
		gi, ok := byName[practice.Canon(rg.Name)]
		if !ok {
			log.Warn().
				Str("group", rg.Name).
				Msg("repair response named a nonexistent group, discarding")
			continue
		}
		for _, member := range rg.Members {
			key := practice.Canon(member)
			if _, dup := present[key]; dup {
				continue
			}
			m.Groups[gi].Members = append(m.Groups[gi].Members, member)
			present[key] = struct{}{}
			added++
		}
	}
	return added
}

// sortMembers orders each group's member list case-insensitively.
func sortMembers(m *Mapping) {
	for gi := range m.Groups {
		members := m.Groups[gi].Members
		sort.SliceStable(members, func(i, j int) bool {
			return strings.ToLower(members[i]) < strings.ToLower(members[j])
		})
	}
}
