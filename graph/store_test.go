package graph

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sinkRecorder captures report fragments as a single string for
// comparison against expected report lines.
type sinkRecorder struct {
	strings.Builder
}

func (r *sinkRecorder) None()                 { r.WriteString("none") }
func (r *sinkRecorder) BeginType(name string) { fmt.Fprintf(r, "%q ", name) }
func (r *sinkRecorder) Destination(id string) { fmt.Fprintf(r, "%q ", id) }
func (r *sinkRecorder) EndType(max int)       { fmt.Fprintf(r, "%d; ", max) }
func (r *sinkRecorder) End()                  { r.WriteString("\n") }

func reportString(s *Store) string {
	var rec sinkRecorder
	s.Report(&rec)
	return rec.String()
}

// checkInvariants verifies, from ground truth, the properties every
// command must preserve: top-set correctness, maximum tightness, registry
// liveness, relation uniqueness, and reference integrity.
func checkInvariants(t *testing.T, s *Store) {
	t.Helper()

	// Collect ground-truth incoming sizes per type.
	sizes := make(map[string]map[*Entity]int)
	for _, e := range s.entities {
		for typ, set := range e.incoming {
			require.Positive(t, set.Len(), "empty incoming set for type %s survived a command boundary", typ)
			if sizes[typ] == nil {
				sizes[typ] = make(map[*Entity]int)
			}
			sizes[typ][e] = set.Len()

			// Reference integrity: every source is a registered entity.
			set.Ascend(func(src *Entity) bool {
				require.Same(t, src, s.entities[src.ID()], "incoming set holds unregistered entity %s", src.ID())
				return true
			})
		}
	}

	// Registry liveness: entry iff some non-empty incoming set.
	require.Equal(t, len(sizes), s.types.len(), "type registry size diverges from ground truth")

	s.types.ascend(func(rt *relationType) bool {
		bySize := sizes[rt.name]
		require.NotNil(t, bySize, "registry entry %s has no live relations", rt.name)

		max := 0
		for _, n := range bySize {
			if n > max {
				max = n
			}
		}
		var expectTop []string
		for e, n := range bySize {
			if n == max {
				expectTop = append(expectTop, e.ID())
			}
		}
		sort.Strings(expectTop)

		require.GreaterOrEqual(t, rt.max, 1, "registry entry %s with zero maximum", rt.name)
		require.Equal(t, max, rt.max, "maximum for type %s is not tight", rt.name)
		require.Equal(t, expectTop, rt.top.IDs(), "top set for type %s diverges from ground truth", rt.name)

		rt.top.Ascend(func(e *Entity) bool {
			require.Same(t, e, s.entities[e.ID()], "top set holds unregistered entity %s", e.ID())
			return true
		})
		return true
	})
}

func TestStoreAddEntityIdempotent(t *testing.T) {
	s := NewStore(nil)

	assert.True(t, s.AddEntity("alice"))
	assert.False(t, s.AddEntity("alice"))
	assert.Equal(t, 1, s.Stats().Entities)
	assert.NotNil(t, s.Lookup("alice"))
	assert.Nil(t, s.Lookup("bob"))
}

func TestStoreAddRelationBasic(t *testing.T) {
	s := NewStore(nil)
	s.AddEntity("alice")
	s.AddEntity("bob")

	assert.True(t, s.AddRelation("alice", "bob", "follows"))
	checkInvariants(t, s)

	assert.Equal(t, "\"follows\" \"bob\" 1; \n", reportString(s))
}

func TestStoreAddRelationUnknownEntity(t *testing.T) {
	s := NewStore(nil)
	s.AddEntity("alice")

	assert.False(t, s.AddRelation("alice", "ghost", "follows"))
	assert.False(t, s.AddRelation("ghost", "alice", "follows"))
	assert.Equal(t, 0, s.Stats().Relations)
	assert.Equal(t, "none\n", reportString(s))
}

func TestStoreAddRelationDuplicate(t *testing.T) {
	s := NewStore(nil)
	s.AddEntity("a")
	s.AddEntity("b")

	assert.True(t, s.AddRelation("a", "b", "t"))
	assert.False(t, s.AddRelation("a", "b", "t"))
	assert.Equal(t, 1, s.Stats().Relations)
	checkInvariants(t, s)
}

func TestStoreSelfLoop(t *testing.T) {
	s := NewStore(nil)
	s.AddEntity("narcissus")

	assert.True(t, s.AddRelation("narcissus", "narcissus", "admires"))
	checkInvariants(t, s)
	assert.Equal(t, "\"admires\" \"narcissus\" 1; \n", reportString(s))

	assert.True(t, s.DeleteEntity("narcissus"))
	assert.Equal(t, "none\n", reportString(s))
	assert.Equal(t, 0, s.Stats().Relations)
}

func TestStoreTie(t *testing.T) {
	s := NewStore(nil)
	for _, id := range []string{"a", "b", "c"} {
		s.AddEntity(id)
	}
	s.AddRelation("a", "b", "likes")
	s.AddRelation("a", "c", "likes")

	checkInvariants(t, s)
	assert.Equal(t, "\"likes\" \"b\" \"c\" 1; \n", reportString(s))
}

func TestStoreNewMaxOverrides(t *testing.T) {
	s := NewStore(nil)
	for _, id := range []string{"a", "b", "c"} {
		s.AddEntity(id)
	}
	s.AddRelation("a", "b", "likes")
	s.AddRelation("a", "c", "likes")
	s.AddRelation("b", "c", "likes")

	checkInvariants(t, s)
	assert.Equal(t, "\"likes\" \"c\" 2; \n", reportString(s))
}

func TestStoreDelRelCollapsesTop(t *testing.T) {
	s := NewStore(nil)
	for _, id := range []string{"a", "b", "c"} {
		s.AddEntity(id)
	}
	s.AddRelation("a", "b", "likes")
	s.AddRelation("a", "c", "likes")
	s.AddRelation("b", "c", "likes")

	recomputesBefore := s.Stats().Recomputes
	assert.True(t, s.DeleteRelation("b", "c", "likes"))

	checkInvariants(t, s)
	assert.Equal(t, "\"likes\" \"b\" \"c\" 1; \n", reportString(s))
	assert.Greater(t, s.Stats().Recomputes, recomputesBefore,
		"removing the sole top destination must trigger a recompute")
}

func TestStoreDelRelFromTieKeepsMax(t *testing.T) {
	s := NewStore(nil)
	for _, id := range []string{"a", "b", "c"} {
		s.AddEntity(id)
	}
	s.AddRelation("a", "b", "likes")
	s.AddRelation("a", "c", "likes")

	recomputesBefore := s.Stats().Recomputes
	assert.True(t, s.DeleteRelation("a", "b", "likes"))

	checkInvariants(t, s)
	assert.Equal(t, "\"likes\" \"c\" 1; \n", reportString(s))
	assert.Equal(t, recomputesBefore, s.Stats().Recomputes,
		"removing one of several tied tops must stay incremental")
}

func TestStoreDelRelAbsent(t *testing.T) {
	s := NewStore(nil)
	s.AddEntity("a")
	s.AddEntity("b")
	s.AddRelation("a", "b", "t")

	assert.False(t, s.DeleteRelation("b", "a", "t"), "reverse direction is a different triple")
	assert.False(t, s.DeleteRelation("a", "b", "other"))
	assert.False(t, s.DeleteRelation("a", "ghost", "t"))
	assert.Equal(t, 1, s.Stats().Relations)
	checkInvariants(t, s)
}

func TestStoreAddDelRoundTrip(t *testing.T) {
	s := NewStore(nil)
	for _, id := range []string{"a", "b", "c"} {
		s.AddEntity(id)
	}
	s.AddRelation("a", "b", "likes")
	s.AddRelation("c", "b", "likes")

	before := reportString(s)

	assert.True(t, s.AddRelation("a", "c", "likes"))
	assert.True(t, s.DeleteRelation("a", "c", "likes"))

	checkInvariants(t, s)
	assert.Equal(t, before, reportString(s), "addrel followed by delrel must restore prior state")
}

func TestStoreTypeRetiresWhenEmpty(t *testing.T) {
	s := NewStore(nil)
	s.AddEntity("a")
	s.AddEntity("b")
	s.AddRelation("a", "b", "likes")
	s.AddRelation("a", "b", "follows")

	assert.True(t, s.DeleteRelation("a", "b", "likes"))

	checkInvariants(t, s)
	assert.Equal(t, 1, s.Stats().Types)
	assert.Equal(t, "\"follows\" \"b\" 1; \n", reportString(s))

	assert.True(t, s.DeleteRelation("a", "b", "follows"))
	assert.Equal(t, 0, s.Stats().Types)
	assert.Equal(t, "none\n", reportString(s))
}

func TestStoreDeleteEntityScrubsBothDirections(t *testing.T) {
	s := NewStore(nil)
	for _, id := range []string{"a", "b", "c"} {
		s.AddEntity(id)
	}
	s.AddRelation("a", "b", "r")
	s.AddRelation("c", "b", "r")
	s.AddRelation("b", "a", "r")
	s.AddRelation("c", "a", "r")

	assert.True(t, s.DeleteEntity("b"))

	// Every relation incident to b is gone in both directions; only c->a
	// survives.
	checkInvariants(t, s)
	assert.Equal(t, 2, s.Stats().Entities)
	assert.Equal(t, 1, s.Stats().Relations)
	assert.Equal(t, "\"r\" \"a\" 1; \n", reportString(s))
}

func TestStoreDeleteEntityScrubsAllRelations(t *testing.T) {
	s := NewStore(nil)
	for _, id := range []string{"a", "b", "c"} {
		s.AddEntity(id)
	}
	s.AddRelation("a", "b", "r")
	s.AddRelation("c", "b", "r")
	s.AddRelation("b", "a", "r")

	assert.True(t, s.DeleteEntity("b"))

	// All three relations were incident to b, so the type retires.
	checkInvariants(t, s)
	assert.Equal(t, 2, s.Stats().Entities)
	assert.Equal(t, 0, s.Stats().Relations)
	assert.Equal(t, "none\n", reportString(s))
}

func TestStoreDeleteEntityUnknown(t *testing.T) {
	s := NewStore(nil)
	s.AddEntity("a")

	assert.False(t, s.DeleteEntity("ghost"))
	assert.Equal(t, 1, s.Stats().Entities)
}

func TestStoreDeleteEntityUniqueTopOfMultipleTypes(t *testing.T) {
	s := NewStore(nil)
	for _, id := range []string{"hub", "x", "y", "z"} {
		s.AddEntity(id)
	}
	// hub is the unique top under both types
	s.AddRelation("x", "hub", "alpha")
	s.AddRelation("y", "hub", "alpha")
	s.AddRelation("x", "y", "alpha")
	s.AddRelation("x", "hub", "beta")
	s.AddRelation("y", "hub", "beta")
	s.AddRelation("z", "hub", "beta")
	s.AddRelation("z", "x", "beta")

	assert.Equal(t, "\"alpha\" \"hub\" 2; \"beta\" \"hub\" 3; \n", reportString(s))

	assert.True(t, s.DeleteEntity("hub"))

	checkInvariants(t, s)
	assert.Equal(t, "\"alpha\" \"y\" 1; \"beta\" \"x\" 1; \n", reportString(s))
}

func TestStoreDeleteEntityRetiresType(t *testing.T) {
	s := NewStore(nil)
	s.AddEntity("a")
	s.AddEntity("b")
	s.AddRelation("a", "b", "only")

	assert.True(t, s.DeleteEntity("b"))

	checkInvariants(t, s)
	assert.Equal(t, 0, s.Stats().Types)
	assert.Equal(t, "none\n", reportString(s))
}

func TestStoreReAddAfterDeleteEntity(t *testing.T) {
	s := NewStore(nil)
	s.AddEntity("a")
	s.AddEntity("b")
	s.AddRelation("a", "b", "t")

	s.DeleteEntity("a")
	assert.True(t, s.AddEntity("a"), "identifier must be reusable after delent")
	assert.True(t, s.AddRelation("a", "b", "t"))

	checkInvariants(t, s)
	assert.Equal(t, "\"t\" \"b\" 1; \n", reportString(s))
}

func TestStoreReportAlphabeticalTypes(t *testing.T) {
	s := NewStore(nil)
	s.AddEntity("x")
	s.AddEntity("y")
	s.AddRelation("x", "y", "zeta")
	s.AddRelation("x", "y", "alpha")

	assert.Equal(t, "\"alpha\" \"y\" 1; \"zeta\" \"y\" 1; \n", reportString(s))
}

func TestStoreReportPure(t *testing.T) {
	s := NewStore(nil)
	for _, id := range []string{"a", "b", "c"} {
		s.AddEntity(id)
	}
	s.AddRelation("a", "b", "likes")
	s.AddRelation("c", "b", "likes")

	first := reportString(s)
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, reportString(s))
	}
	checkInvariants(t, s)
}

func TestStoreEmptyReport(t *testing.T) {
	s := NewStore(nil)
	assert.Equal(t, "none\n", reportString(s))

	s.AddEntity("lonely")
	assert.Equal(t, "none\n", reportString(s), "entities without relations produce no report entries")
}

func TestStoreInterleavedChurn(t *testing.T) {
	s := NewStore(nil)

	ids := make([]string, 20)
	for i := range ids {
		ids[i] = fmt.Sprintf("e%02d", i)
		s.AddEntity(ids[i])
	}

	// Deterministic churn over a few types with periodic invariant checks.
	types := []string{"r1", "r2", "r3"}
	step := 0
	for i := 0; i < 20; i++ {
		for j := 0; j < 20; j++ {
			typ := types[(i+j)%len(types)]
			if (i+j)%4 == 0 {
				s.DeleteRelation(ids[i], ids[j], typ)
			} else {
				s.AddRelation(ids[i], ids[j], typ)
			}
			step++
			if step%50 == 0 {
				checkInvariants(t, s)
			}
		}
	}
	checkInvariants(t, s)

	// Tear down a few hubs and verify the indexes recover.
	for _, id := range []string{"e05", "e10", "e15"} {
		require.True(t, s.DeleteEntity(id))
		checkInvariants(t, s)
	}

	// Drain everything.
	for _, from := range ids {
		for _, to := range ids {
			for _, typ := range types {
				s.DeleteRelation(from, to, typ)
			}
		}
	}
	checkInvariants(t, s)
	assert.Equal(t, 0, s.Stats().Relations)
	assert.Equal(t, "none\n", reportString(s))
}
