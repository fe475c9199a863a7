package folio

import "testing"

func TestJsonObjectWriter(t *testing.T) {
	t.Run("empty object", func(t *testing.T) {
		var w jsonObjectWriter
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := "{}"; string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("keeps insertion order", func(t *testing.T) {
		// The whole point of the writer: fields come out in the order they
		// were appended, not alphabetically.
		var w jsonObjectWriter
		w.Append("type", "BUY")
		w.Append("quantity", 10)
		w.Append("account", AccountCash)
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"type":"BUY","quantity":10,"account":"Cash"}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("optional skips zero values", func(t *testing.T) {
		// Money relies on this to omit the weak "" currency.
		var w jsonObjectWriter
		w.Append("amount", 0) // an appended zero is kept
		w.Optional("currency", "")
		w.Optional("description", "")
		w.Optional("symbol", "TA")
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"amount":0,"symbol":"TA"}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("nested marshaler", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("price", usd(5))
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"price":{"currency":"USD","amount":"5"}}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("marshal error is sticky", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("bad", make(chan int))
		w.Append("after", 1)
		if _, err := w.MarshalJSON(); err == nil {
			t.Error("MarshalJSON() = nil error for an unmarshalable value")
		}
	})
}
