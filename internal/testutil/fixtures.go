package testutil

import "github.com/jtai-dev/record-matcher/pkg/recordmatcher"

// SampleTables returns a small, deterministic X/Y pair: three X rows
// against two Y rows, sharing an "email" column. Row 2's name is a
// near-miss of Y row 2's full_name ("Bob" vs "Robert"), row 3 has no
// Y counterpart, and row 2's "city" is empty.
func SampleTables() (x, y recordmatcher.Table) {
	x = recordmatcher.Table{
		1: {"name": "Ada Lovelace", "email": "ada@example.com", "city": "London"},
		2: {"name": "Bob Stone", "email": "bob@example.com", "city": ""},
		3: {"name": "Cid Rey", "email": "cid@example.org", "city": "Paris"},
	}
	y = recordmatcher.Table{
		1: {"customer_id": "C1", "full_name": "Ada Lovelace", "email": "ada@example.com", "city": "London"},
		2: {"customer_id": "C2", "full_name": "Robert Stone", "email": "bob@example.com", "city": "Boston"},
	}
	return x, y
}
