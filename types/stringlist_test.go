package types

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestStringListUnmarshal(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want StringList
	}{
		{"array", `["go","sql"]`, StringList{"go", "sql"}},
		{"comma string", `"go, sql, grpc"`, StringList{"go", "sql", "grpc"}},
		{"single value", `"go"`, StringList{"go"}},
		{"empty string", `""`, nil},
		{"trailing commas", `"go,,sql,"`, StringList{"go", "sql"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got StringList
			if err := json.Unmarshal([]byte(tc.in), &got); err != nil {
				t.Fatalf("unmarshal %s: %v", tc.in, err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}

	var got StringList
	if err := json.Unmarshal([]byte(`42`), &got); err == nil {
		t.Fatal("expected an error for a non-string, non-array value")
	}
}
