package contract

import (
	"testing"
)

func TestJsonObjectWriter(t *testing.T) {
	tests := []struct {
		name  string
		build func(w *jsonObjectWriter)
		want  string
	}{
		{
			name:  "empty object",
			build: func(w *jsonObjectWriter) {},
			want:  `{}`,
		},
		{
			name: "keeps field order",
			build: func(w *jsonObjectWriter) {
				w.Append("z", 1).Append("a", "hello")
			},
			want: `{"z":1,"a":"hello"}`,
		},
		{
			name: "zero values are written",
			build: func(w *jsonObjectWriter) {
				w.Append("a", 0).Append("b", "")
			},
			want: `{"a":0,"b":""}`,
		},
		{
			name: "nested marshaler",
			build: func(w *jsonObjectWriter) {
				w.Append("tx", Transaction{ID: "t1", Seq: 1, Kind: Deposit, Amount: 5})
			},
			want: `{"tx":{"id":"t1","seq":1,"kind":"deposit","amount":5,"time":"0001-01-01T00:00:00Z"}}`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var w jsonObjectWriter
			tc.build(&w)
			got, err := w.MarshalJSON()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestJsonObjectWriter_KeepsFirstError(t *testing.T) {
	var w jsonObjectWriter
	w.Append("f", func() {})
	w.Append("a", 1)
	if _, err := w.MarshalJSON(); err == nil {
		t.Error("MarshalJSON() succeeded after marshaling a func, want error")
	}
}
