package tool

import (
	"strings"
	"testing"

	contractx "github.com/tanpawarit/realty-assistant/agent/contract"
)

func TestCatalogListsSixToolsInOrder(t *testing.T) {
	t.Parallel()

	infos := Catalog()
	names := contractx.ToolNames()
	if len(infos) != len(names) {
		t.Fatalf("expected %d tool infos, got %d", len(names), len(infos))
	}
	for i, info := range infos {
		if info.Name != string(names[i]) {
			t.Fatalf("tool %d = %s, want %s", i, info.Name, names[i])
		}
	}
}

func TestCatalogReturnsCopy(t *testing.T) {
	t.Parallel()

	infos := Catalog()
	infos[0] = nil
	if Catalog()[0] == nil {
		t.Fatal("Catalog() exposed its backing slice")
	}
}

func TestDescribeNumbersTools(t *testing.T) {
	t.Parallel()

	out, err := Describe(Catalog())
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if !strings.HasPrefix(out, "1. search_properties - ONLY when user explicitly wants") {
		t.Fatalf("unexpected first line: %q", strings.SplitN(out, "\n", 2)[0])
	}
	if !strings.Contains(out, "6. general_help - ") {
		t.Fatalf("general_help missing from %q", out)
	}
	if strings.HasSuffix(out, "\n") {
		t.Fatal("Describe() left a trailing newline")
	}
}

func TestDescribeIncludesParameterKeys(t *testing.T) {
	t.Parallel()

	out, err := Describe(Catalog())
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}

	blocks := strings.Split(out, "\n")
	wantKeys := map[contractx.ToolName][]string{
		contractx.ToolSearchProperties:  {`"location"`, `"budget_min"`, `"budget_max"`, `"bedrooms"`, `"bathrooms"`, `"property_type"`, `"amenities"`},
		contractx.ToolAnalyzeProperty:   {`"property_id"`, `"analysis_type"`},
		contractx.ToolCompareProperties: {`"property_ids"`, `"comparison_criteria"`},
		contractx.ToolAnalyzeMarket:     {`"location"`, `"analysis_type"`},
		contractx.ToolSetupShowing:      {`"property_id"`, `"preferred_time"`},
	}
	for i, name := range contractx.ToolNames() {
		schemaLine := blocks[2*i+1]
		if !strings.HasPrefix(schemaLine, "   parameters: ") {
			t.Fatalf("%s: schema line = %q", name, schemaLine)
		}
		for _, key := range wantKeys[name] {
			if !strings.Contains(schemaLine, key) {
				t.Fatalf("%s: schema %q lacks %s", name, schemaLine, key)
			}
		}
	}
	if !strings.HasSuffix(out, "   parameters: null") {
		t.Fatalf("general_help should carry no parameters: %q", out)
	}
}
