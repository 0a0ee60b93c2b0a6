// ABOUTME: Tests for the topology, document, and diagram commands
// ABOUTME: Verifies fabric summaries and pass-through of exported documents

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/markalston/fabric-designer/backend/models"
	"github.com/markalston/fabric-designer/backend/services"
)

func TestFormatTopologyHuman(t *testing.T) {
	model, _ := models.LookupSwitchModel(models.DefaultSwitchModel)
	resp := &models.TopologyResponse{
		ProjectID:   testProjectID,
		Version:     2,
		Cached:      true,
		SwitchModel: model,
		Topology:    services.Synthesize(defaultConfig(), model),
	}

	output := formatTopologyHuman(resp)

	for _, want := range []string{
		testProjectID + " v2 (cached)",
		"9336C-FX2 (36 x 100G)",
		"Servers:      10",
		"Switches:     5 leaf, 4 spine",
		"Connections:  150",
		"frontend",
		"20/20",
		"40/40",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
	if strings.Contains(output, "!") {
		t.Errorf("expected no warnings for a healthy design, got:\n%s", output)
	}
}

func TestFormatTopologyHuman_Warnings(t *testing.T) {
	model, _ := models.LookupSwitchModel(models.DefaultSwitchModel)
	cfg := models.ClusterConfig{
		ServerCount: 4,
		Networks: []models.NetworkRequirement{
			{Name: "frontend", Kind: models.KindSpineLeaf, OversubscriptionRatio: models.Ratio3to1, NICPortCount: 2, PortSpeed: "40G"},
		},
	}
	resp := &models.TopologyResponse{SwitchModel: model, Topology: services.Synthesize(cfg, model)}

	output := formatTopologyHuman(resp)

	if !strings.Contains(output, "oversubscription 3:1 requested") {
		t.Errorf("expected oversubscription warning, got:\n%s", output)
	}
	if strings.Contains(output, "Project:") {
		t.Errorf("expected no project line for ad-hoc designs, got:\n%s", output)
	}
}

func TestTopologyCommand_JSON(t *testing.T) {
	server := topologyServer(t, defaultConfig())
	apiURL = server.URL
	jsonOutput = true
	defer func() {
		apiURL = ""
		jsonOutput = false
	}()

	var buf bytes.Buffer
	if exitCode := runTopology(context.Background(), &buf, testProjectID); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", exitCode)
	}

	var resp models.TopologyResponse
	if err := json.Unmarshal(buf.Bytes(), &resp); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(resp.Topology.Connections) != 150 {
		t.Errorf("expected 150 connections, got %d", len(resp.Topology.Connections))
	}
}

func TestDocumentCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/projects/"+testProjectID+"/document" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/yaml")
		io.WriteString(w, "servers:\n  quantity: 10\n")
	}))
	defer server.Close()

	apiURL = server.URL
	defer func() { apiURL = "" }()

	var buf bytes.Buffer
	if exitCode := runDocument(context.Background(), &buf, testProjectID); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", exitCode)
	}
	if buf.String() != "servers:\n  quantity: 10\n" {
		t.Errorf("expected document to pass through, got %q", buf.String())
	}
}

func TestDiagramCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "digraph fabric {}\n")
	}))
	defer server.Close()

	apiURL = server.URL
	defer func() { apiURL = "" }()

	var buf bytes.Buffer
	if exitCode := runDiagram(context.Background(), &buf, testProjectID, "dot"); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", exitCode)
	}
	if !strings.HasPrefix(buf.String(), "digraph fabric") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestDiagramCommand_InvalidFormat(t *testing.T) {
	var buf bytes.Buffer
	if exitCode := runDiagram(context.Background(), &buf, testProjectID, "svg"); exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
}
