package benchmarks

import (
	"path/filepath"
	"testing"

	"github.com/randalmurphal/symdiff/pkg/symdiff/sexpr"
	"github.com/randalmurphal/symdiff/pkg/symdiff/store"
)

// BenchmarkFormat_Polynomial_100 writes a 100-term polynomial as text.
func BenchmarkFormat_Polynomial_100(b *testing.B) {
	t := mustParse(b, polynomial(100))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = sexpr.FormatTree(t)
	}
}

// BenchmarkParse_Polynomial_100 reads a 100-term polynomial.
func BenchmarkParse_Polynomial_100(b *testing.B) {
	text := polynomial(100)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = sexpr.Parse(text)
	}
}

// BenchmarkMemoryStore_Save measures in-memory record saves.
func BenchmarkMemoryStore_Save(b *testing.B) {
	s := store.NewMemoryStore()
	defer s.Close()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Save(store.NewRecord(`("x" nil nil)`, "x", 1, `("1" nil nil)`, 1))
	}
}

// BenchmarkSQLiteStore_Save measures SQLite record saves.
func BenchmarkSQLiteStore_Save(b *testing.B) {
	s, err := store.NewSQLiteStore(filepath.Join(b.TempDir(), "bench.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer s.Close()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Save(store.NewRecord(`("x" nil nil)`, "x", 1, `("1" nil nil)`, 1))
	}
}
