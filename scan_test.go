package plate

import (
	"path/filepath"
	"testing"
)

func TestScan_ShouldFindPlateLayers(t *testing.T) {
	doc, err := Load(sampleSource)
	if err != nil {
		t.Fatalf("could not load the sample document: %v", err)
	}

	layers := Scan(doc, "plate")
	if len(layers) != 2 {
		t.Fatalf("Expected 2 plate layers. Got %d", len(layers))
	}

	if layers[0].ID != "layer2" || layers[1].ID != "layer3" {
		t.Errorf("Layers expected in document order, got %q and %q", layers[0].ID, layers[1].ID)
	}

	var ids []string
	for _, tgt := range layers[0].Targets {
		ids = append(ids, tgt.ID)
	}
	if len(ids) != 2 || ids[0] != "plate-full" || ids[1] != "plate-empty" {
		t.Errorf("Expected only the direct rect children in order, got %v", ids)
	}
	if layers[0].Targets[0].Label != "battery/full" {
		t.Errorf("Unexpected target label: %q", layers[0].Targets[0].Label)
	}
}

func TestScan_ShouldSkipPastedGroups(t *testing.T) {
	doc, err := Load(sampleSource)
	if err != nil {
		t.Fatalf("could not load the sample document: %v", err)
	}

	for _, layer := range Scan(doc, "plate") {
		if layer.ID == "g100" {
			t.Fatalf("A group without the layer group mode should be skipped")
		}
		for _, tgt := range layer.Targets {
			if tgt.ID == "pasted-full" {
				t.Errorf("Target %q of a pasted group should not be scanned", tgt.ID)
			}
		}
	}
}

func TestScan_ShouldApplyTranslations(t *testing.T) {
	doc, err := Load(sampleSource)
	if err != nil {
		t.Fatalf("could not load the sample document: %v", err)
	}

	layers := Scan(doc, "ac plate")
	if len(layers) != 1 || len(layers[0].Targets) != 1 {
		t.Fatalf("Expected a single target, got %+v", layers)
	}

	want := Bounds{X: 16, Y: 28, Width: 16, Height: 16}
	if got := layers[0].Targets[0].Bounds; got != want {
		t.Errorf("Bounds expected to be %+v. Got %+v", want, got)
	}
}

func TestScan_GroupModeAndMarker(t *testing.T) {
	testCases := []struct {
		name  string
		group string
		want  int
	}{
		{
			name:  "layer with marker",
			group: `<g inkscape:groupmode="layer" inkscape:label="icon plate">`,
			want:  1,
		},
		{
			name:  "layer without marker",
			group: `<g inkscape:groupmode="layer" inkscape:label="background">`,
			want:  0,
		},
		{
			name:  "group with marker",
			group: `<g inkscape:label="icon plate">`,
			want:  0,
		},
		{
			name:  "other group mode",
			group: `<g inkscape:groupmode="group" inkscape:label="icon plate">`,
			want:  0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "doc.svg")
			writeFile(t, path, `<svg xmlns="http://www.w3.org/2000/svg" `+
				`xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape">`+
				tc.group+`<rect id="r1" inkscape:label="a/b"/></g></svg>`)

			doc, err := Load(path)
			if err != nil {
				t.Fatalf("could not load document: %v", err)
			}
			if got := len(Scan(doc, "plate")); got != tc.want {
				t.Errorf("Expected %d layers. Got %d", tc.want, got)
			}
		})
	}
}

func TestScan_NestedLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.svg")
	writeFile(t, path, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape">
  <g inkscape:groupmode="layer" inkscape:label="outer plate" id="outer">
    <rect id="r1" inkscape:label="one"/>
    <g inkscape:groupmode="layer" inkscape:label="inner plate" id="inner">
      <rect id="r2" inkscape:label="two"/>
    </g>
    <rect id="r3" inkscape:label="three"/>
  </g>
</svg>`)

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("could not load document: %v", err)
	}

	layers := Scan(doc, "plate")
	if len(layers) != 2 {
		t.Fatalf("Expected 2 layers. Got %d", len(layers))
	}
	if layers[0].ID != "outer" || layers[1].ID != "inner" {
		t.Errorf("Expected outer before inner, got %q, %q", layers[0].ID, layers[1].ID)
	}
	if n := len(layers[0].Targets); n != 2 {
		t.Errorf("Outer layer expected to hold 2 targets. Got %d", n)
	}
}
