package server

import (
	"encoding/json"
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	if len(tools) == 0 {
		t.Fatal("GetToolDefinitions returned empty slice")
	}

	expectedTools := []string{
		"asset_import",
		"asset_analyze",
		"asset_list",
		"asset_delete",
		"palette_match",
		"palette_suggest",
		"editor_open",
		"editor_set_tool",
		"editor_pointer",
		"editor_layer",
		"editor_history",
		"editor_crop",
		"editor_lasso",
		"editor_state",
		"editor_save",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("Tool %s defined twice", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}
			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok || props == nil {
				t.Fatal("InputSchema missing 'properties'")
			}

			// Every required argument must be described.
			if required, ok := tool.InputSchema["required"].([]string); ok {
				for _, r := range required {
					if _, ok := props[r]; !ok {
						t.Errorf("required argument %q has no property", r)
					}
				}
			}
		})
	}
}

func TestToolDefinitions_Dispatchable(t *testing.T) {
	s := New(nil, nil)
	for _, tool := range GetToolDefinitions() {
		_, err := s.executeTool(tool.Name, json.RawMessage(`{}`))
		if err != nil && err.Error() == "unknown tool: "+tool.Name {
			t.Errorf("tool %s is listed but not dispatched", tool.Name)
		}
	}
}

func TestToolDefinitions_ActionEnums(t *testing.T) {
	tests := map[string][]string{
		"editor_pointer": {"press", "move", "release"},
		"editor_layer":   {"add", "delete", "select", "visibility", "rename", "up", "down"},
		"editor_history": {"undo", "redo"},
		"editor_crop":    {"confirm", "cancel"},
		"editor_lasso":   {"move", "cut", "cancel"},
	}

	toolMap := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		toolMap[tool.Name] = tool
	}

	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			props := toolMap[name].InputSchema["properties"].(map[string]interface{})
			action := props["action"].(map[string]interface{})
			got, ok := action["enum"].([]string)
			if !ok {
				t.Fatal("action enum missing")
			}
			if len(got) != len(want) {
				t.Fatalf("enum: got %v, want %v", got, want)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("enum[%d]: got %s, want %s", i, got[i], want[i])
				}
			}
		})
	}
}

func TestToolStruct(t *testing.T) {
	tool := Tool{
		Name:        "test_tool",
		Description: "A test tool",
		InputSchema: map[string]interface{}{"type": "object"},
	}

	data, err := json.Marshal(tool)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if _, ok := decoded["inputSchema"]; !ok {
		t.Error("Tool must serialize its schema as inputSchema")
	}
}
