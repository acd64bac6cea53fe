package resolve

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tomduck/pandoc-tablenos/internal/config"
	"github.com/tomduck/pandoc-tablenos/internal/pandoc"
	"github.com/tomduck/pandoc-tablenos/internal/refs"
	"github.com/tomduck/pandoc-tablenos/internal/report"
)

func cite(label string) *pandoc.Cite {
	return &pandoc.Cite{
		Citations: []*pandoc.Citation{{ID: label, Mode: pandoc.AuthorInText}},
		Inlines:   []pandoc.Inline{&pandoc.Str{Text: "@" + label}},
	}
}

func stdRefs() *refs.Table {
	t := refs.New()
	t.Set("tbl:a", refs.Target{Number: 1})
	t.Set("tbl:b", refs.Target{Tagged: true, Tag: "B-1"})
	t.Set("tbl:c", refs.Target{Number: 2})
	return t
}

func resolveBlocks(format string, cfg config.Config, table *refs.Table, blocks []pandoc.Block) (*Resolver, []pandoc.Block, string) {
	var buf bytes.Buffer
	rep := report.New(report.LevelSome, &buf)
	r := New(format, cfg, table, rep)
	blocks = pandoc.WalkBlocks(blocks, r.RepairVisitor(), r.ReplaceVisitor())
	rep.Flush()
	return r, blocks, buf.String()
}

func para(inlines ...pandoc.Inline) *pandoc.Para { return &pandoc.Para{Inlines: inlines} }

func TestResolver_ReplacesWithValue(t *testing.T) {
	blocks := []pandoc.Block{para(
		&pandoc.Str{Text: "Table"},
		&pandoc.Space{},
		cite("tbl:c"),
		&pandoc.Str{Text: "."},
	)}
	_, out, _ := resolveBlocks("markdown", config.Default(), stdRefs(), blocks)

	if got := pandoc.Stringify(out[0].(*pandoc.Para).Inlines); got != "Table 2." {
		t.Errorf("expected %q, got %q", "Table 2.", got)
	}
}

func TestResolver_TaggedValue(t *testing.T) {
	blocks := []pandoc.Block{para(cite("tbl:b"))}
	_, out, _ := resolveBlocks("markdown", config.Default(), stdRefs(), blocks)
	if got := pandoc.Stringify(out[0].(*pandoc.Para).Inlines); got != "B-1" {
		t.Errorf("expected %q, got %q", "B-1", got)
	}
}

func TestResolver_PlusModifier(t *testing.T) {
	blocks := []pandoc.Block{para(
		&pandoc.Str{Text: "see"},
		&pandoc.Space{},
		&pandoc.Str{Text: "+"},
		cite("tbl:a"),
	)}
	_, out, _ := resolveBlocks("markdown", config.Default(), stdRefs(), blocks)
	if got := pandoc.Stringify(out[0].(*pandoc.Para).Inlines); got != "see table 1" {
		t.Errorf("expected %q, got %q", "see table 1", got)
	}
}

func TestResolver_StarModifier(t *testing.T) {
	blocks := []pandoc.Block{para(&pandoc.Str{Text: "*"}, cite("tbl:a"))}
	_, out, _ := resolveBlocks("markdown", config.Default(), stdRefs(), blocks)
	if got := pandoc.Stringify(out[0].(*pandoc.Para).Inlines); got != "Table 1" {
		t.Errorf("expected %q, got %q", "Table 1", got)
	}
}

func TestResolver_BangModifier(t *testing.T) {
	cfg := config.Default()
	cfg.Cleveref = true
	blocks := []pandoc.Block{para(&pandoc.Str{Text: "!"}, cite("tbl:a"))}
	_, out, _ := resolveBlocks("markdown", cfg, stdRefs(), blocks)
	if got := pandoc.Stringify(out[0].(*pandoc.Para).Inlines); got != "1" {
		t.Errorf("expected the bare value, got %q", got)
	}
}

func TestResolver_CleverefAddsName(t *testing.T) {
	cfg := config.Default()
	cfg.Cleveref = true
	blocks := []pandoc.Block{para(cite("tbl:c"))}
	_, out, _ := resolveBlocks("markdown", cfg, stdRefs(), blocks)
	if got := pandoc.Stringify(out[0].(*pandoc.Para).Inlines); got != "table 2" {
		t.Errorf("expected %q, got %q", "table 2", got)
	}
}

func TestResolver_CleverefCapitalised(t *testing.T) {
	cfg := config.Default()
	cfg.Cleveref = true
	cfg.Capitalise = true
	blocks := []pandoc.Block{para(cite("tbl:c"))}
	_, out, _ := resolveBlocks("markdown", cfg, stdRefs(), blocks)
	if got := pandoc.Stringify(out[0].(*pandoc.Para).Inlines); got != "Table 2" {
		t.Errorf("expected %q, got %q", "Table 2", got)
	}
}

func TestResolver_ModifierConsumedFromText(t *testing.T) {
	blocks := []pandoc.Block{para(&pandoc.Str{Text: "(+"}, cite("tbl:a"), &pandoc.Str{Text: ")"})}
	_, out, _ := resolveBlocks("markdown", config.Default(), stdRefs(), blocks)
	if got := pandoc.Stringify(out[0].(*pandoc.Para).Inlines); got != "(table 1)" {
		t.Errorf("expected %q, got %q", "(table 1)", got)
	}
}

func TestResolver_LaTeXMacros(t *testing.T) {
	cases := []struct {
		name     string
		cleveref bool
		prefix   string
		want     string
	}{
		{"plain", false, "", `\ref{tbl:a}`},
		{"cleveref", true, "", `\cref{tbl:a}`},
		{"plus", false, "+", `\cref{tbl:a}`},
		{"star", false, "*", `\Cref{tbl:a}`},
		{"bang", true, "!", `\ref{tbl:a}`},
	}
	for _, tc := range cases {
		cfg := config.Default()
		cfg.Cleveref = tc.cleveref
		var inl []pandoc.Inline
		if tc.prefix != "" {
			inl = append(inl, &pandoc.Str{Text: tc.prefix})
		}
		inl = append(inl, cite("tbl:a"))
		r, out, _ := resolveBlocks("latex", cfg, stdRefs(), []pandoc.Block{para(inl...)})

		got := out[0].(*pandoc.Para).Inlines
		if len(got) != 1 {
			t.Errorf("%s: expected a single raw inline, got %d nodes", tc.name, len(got))
			continue
		}
		ri, ok := got[0].(*pandoc.RawInline)
		if !ok || ri.Format != "tex" || ri.Text != tc.want {
			t.Errorf("%s: expected %q, got %#v", tc.name, tc.want, got[0])
		}
		wantClever := strings.Contains(tc.want, "cref") || strings.Contains(tc.want, "Cref")
		if r.UsedCleveref != wantClever {
			t.Errorf("%s: UsedCleveref = %v, want %v", tc.name, r.UsedCleveref, wantClever)
		}
	}
}

func TestResolver_HTMLLink(t *testing.T) {
	blocks := []pandoc.Block{para(cite("tbl:c"))}
	_, out, _ := resolveBlocks("html", config.Default(), stdRefs(), blocks)

	inl := out[0].(*pandoc.Para).Inlines
	link, ok := inl[0].(*pandoc.Link)
	if !ok {
		t.Fatalf("expected a link, got %#v", inl[0])
	}
	if link.Target.URL != "#tbl:c" {
		t.Errorf("expected #tbl:c, got %q", link.Target.URL)
	}
	if got := pandoc.Stringify(link.Inlines); got != "2" {
		t.Errorf("expected link text 2, got %q", got)
	}
}

func TestResolver_UnknownLabelWarnsAndKeeps(t *testing.T) {
	blocks := []pandoc.Block{para(cite("tbl:missing"))}
	_, out, warnings := resolveBlocks("markdown", config.Default(), stdRefs(), blocks)

	if _, ok := out[0].(*pandoc.Para).Inlines[0].(*pandoc.Cite); !ok {
		t.Error("unresolved citation must stay verbatim")
	}
	if !strings.Contains(warnings, "no target found for reference @tbl:missing") {
		t.Errorf("expected an unresolved warning, got %q", warnings)
	}
}

func TestResolver_RepairsAutolinkSplit(t *testing.T) {
	// The bare-URI reader turns "{@tbl:c}" into Str("{@") + Link("tbl:c").
	blocks := []pandoc.Block{para(
		&pandoc.Str{Text: "see"},
		&pandoc.Space{},
		&pandoc.Str{Text: "{@"},
		&pandoc.Link{
			Inlines: []pandoc.Inline{&pandoc.Str{Text: "tbl:c"}},
			Target:  pandoc.LinkTarget{URL: "tbl:c"},
		},
		&pandoc.Str{Text: "}"},
	)}
	_, out, _ := resolveBlocks("markdown", config.Default(), stdRefs(), blocks)
	if got := pandoc.Stringify(out[0].(*pandoc.Para).Inlines); got != "see 2" {
		t.Errorf("expected %q, got %q", "see 2", got)
	}
}

func TestResolver_StripsBraces(t *testing.T) {
	blocks := []pandoc.Block{para(
		&pandoc.Str{Text: "rows{"},
		cite("tbl:a"),
		&pandoc.Str{Text: "}end"},
	)}
	_, out, _ := resolveBlocks("markdown", config.Default(), stdRefs(), blocks)
	if got := pandoc.Stringify(out[0].(*pandoc.Para).Inlines); got != "rows1end" {
		t.Errorf("expected %q, got %q", "rows1end", got)
	}
}

func TestResolver_ResolvesInsideTableCells(t *testing.T) {
	tbl := &pandoc.Table{
		Bodies: []*pandoc.TableBody{{
			Body: []*pandoc.TableRow{{
				Cells: []*pandoc.TableCell{{
					Blocks: []pandoc.Block{&pandoc.Plain{Inlines: []pandoc.Inline{cite("tbl:a")}}},
				}},
			}},
		}},
	}
	_, _, _ = resolveBlocks("markdown", config.Default(), stdRefs(), []pandoc.Block{tbl})
	got := tbl.Bodies[0].Body[0].Cells[0].Blocks[0].(*pandoc.Plain).Inlines
	if s, ok := got[0].(*pandoc.Str); !ok || s.Text != "1" {
		t.Errorf("expected citation in cell resolved, got %#v", got[0])
	}
}

func TestResolver_MultiCitationLeftAlone(t *testing.T) {
	multi := &pandoc.Cite{
		Citations: []*pandoc.Citation{
			{ID: "tbl:a", Mode: pandoc.NormalCitation},
			{ID: "smith2020", Mode: pandoc.NormalCitation},
		},
		Inlines: []pandoc.Inline{&pandoc.Str{Text: "[@tbl:a; @smith2020]"}},
	}
	blocks := []pandoc.Block{para(multi)}
	_, out, _ := resolveBlocks("markdown", config.Default(), stdRefs(), blocks)
	if _, ok := out[0].(*pandoc.Para).Inlines[0].(*pandoc.Cite); !ok {
		t.Error("citation lists must pass through untouched")
	}
}
