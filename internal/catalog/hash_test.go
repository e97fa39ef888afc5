package catalog

import (
	"testing"

	"github.com/conorfennell/zeal/internal/domain"
)

func TestNormalize(t *testing.T) {
	item := domain.Item{
		Front:   "  Привет! \r\n",
		Back:    "Hello.",
		Context: "Greetings",
	}
	expected := "привет!\nhello.\ngreetings"
	normalized := Normalize(item)

	if normalized != expected {
		t.Errorf("Expected normalized string to be '%s', but got '%s'", expected, normalized)
	}
}

func TestItemID(t *testing.T) {
	t.Run("generates correct id", func(t *testing.T) {
		item := domain.Item{Front: "Privet", Back: "Hello", Context: "Greetings"}
		// sha256 of "privet\nhello\ngreetings"
		expected := "77567e84b905e1cf95131c350b95bc26da95fae2f53d531c7c56f77decb0b8a4"

		if id := ItemID(item); id != expected {
			t.Errorf("Expected id '%s', but got '%s'", expected, id)
		}
	})

	t.Run("normalization produces same id", func(t *testing.T) {
		a := domain.Item{Front: "  poka ", Back: "Bye"}
		b := domain.Item{Front: "Poka", Back: "bye"}
		if ItemID(a) != ItemID(b) {
			t.Error("Expected ids to be the same after normalization, but they were different.")
		}
	})

	t.Run("different items have different ids", func(t *testing.T) {
		a := domain.Item{Front: "da"}
		b := domain.Item{Front: "net"}
		if ItemID(a) == ItemID(b) {
			t.Error("Expected ids for different items to be different")
		}
	})

	t.Run("fields do not run together", func(t *testing.T) {
		a := domain.Item{Front: "ab", Back: "c"}
		b := domain.Item{Front: "a", Back: "bc"}
		if ItemID(a) == ItemID(b) {
			t.Error("Expected field boundaries to change the id")
		}
	})
}
