package evaluator

import "testing"

func TestPatterns(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"tuple", "match (1, 2) { (a, b) => a + b }", "3"},
		{"list rest middle", "match [1, 2, 3, 4] { [first, .., last] => first + last }", "5"},
		{"list exact arity", "match [1, 2] { [a] => a, [a, b] => a * b }", "2"},
		{"rest binding", "match [1, 2, 3] { [_, ..rest] => rest }", "[2, 3]"},
		{"at binding", "match 5 { n @ 1..=9 => n * 2, _ => 0 }", "10"},
		{"struct fields", "struct P { x: Int, y: Int }; let p = P { x: 1, y: 2 }; match p { P { x, .. } => x }", "1"},
		{"float literal", `match 0.5 { 0.5 => "half", _ => "other" }`, "half"},
		{"string literal", `match "b" { "a" => 1, "b" => 2, _ => 3 }`, "2"},
		{"let destructure", "let (a, b) = (1, 2); a * 10 + b", "12"},
		{"nested variant", "match Some(Ok(3)) { Some(Ok(n)) => n, _ => 0 }", "3"},
		{"wildcard", "match 99 { _ => \"any\" }", "any"},
		{"none", "match None { Some(x) => x, None => -1 }", "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustRun(t, tt.src); got != tt.want {
				t.Errorf("%q = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestListMethods(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"sort", "[3, 1, 2].sort()", "[1, 2, 3]"},
		{"map", "[1, 2, 3].map(x => x * 2)", "[2, 4, 6]"},
		{"filter", "[1, 2, 3, 4].filter(x => x % 2 == 0)", "[2, 4]"},
		{"fold", "[1, 2, 3].fold(0, |acc, x| acc + x)", "6"},
		{"sum", "[1, 2, 3].sum()", "6"},
		{"sum float", "[1, 2.5].sum()", "3.5"},
		{"join", `[1, 2, 3].join("-")`, "1-2-3"},
		{"unique", "[1, 2, 2, 3, 1].unique()", "[1, 2, 3]"},
		{"reverse", "[1, 2, 3].reverse()", "[3, 2, 1]"},
		{"first", "[7, 8].first()", "Some(7)"},
		{"first empty", "[].first()", "None"},
		{"any", "[1, 2].any(x => x > 1)", "true"},
		{"all", "[1, 2].all(x => x > 1)", "false"},
		{"find", "[1, 2, 3].find(x => x > 1)", "Some(2)"},
		{"take skip", "[1, 2, 3, 4].skip(1).take(2)", "[2, 3]"},
		{"enumerate", `["a", "b"].enumerate()`, `[(0, "a"), (1, "b")]`},
		{"zip", "[1, 2].zip([3, 4])", "[(1, 3), (2, 4)]"},
		{"contains", "[1, 2].contains(2)", "true"},
		{"push", "let mut xs = [1]; xs.push(2); xs", "[1, 2]"},
		{"pop", "let mut xs = [1, 2]; let last = xs.pop(); (last, xs)", "(Some(2), [1])"},
		{"insert remove", "let mut xs = [1, 3]; xs.insert(1, 2); xs.remove(0); xs", "[2, 3]"},
		{"value semantics", "let mut a = [1]; let b = a; a.push(2); b", "[1]"},
		{"index assign", "let mut xs = [1, 2]; xs[0] = 9; xs", "[9, 2]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustRun(t, tt.src); got != tt.want {
				t.Errorf("%q = %s, want %s", tt.src, got, tt.want)
			}
		})
	}

	t.Run("mutating an immutable list", func(t *testing.T) {
		if err := runError(t, "let xs = [1]; xs.push(2)"); err.Kind != ImmutableAssignment {
			t.Errorf("got %s, want ImmutableAssignment", err.Kind)
		}
	})
	t.Run("reduce empty", func(t *testing.T) {
		if err := runError(t, "[].reduce(|a, b| a + b)"); err.Kind != IndexOutOfBounds {
			t.Errorf("got %s, want IndexOutOfBounds", err.Kind)
		}
	})
}

func TestStringMethods(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"upper", `"hello".to_uppercase()`, "HELLO"},
		{"trim", `"  x ".trim()`, "x"},
		{"split", `"a,b".split(",")`, `["a", "b"]`},
		{"len runes", `"héllo".len()`, "5"},
		{"contains", `"hello".contains("ell")`, "true"},
		{"replace", `"aXbX".replace("X", "-")`, "a-b-"},
		{"starts_with", `"hello".starts_with("he")`, "true"},
		{"parse_int", `"12".parse_int()`, "Ok(12)"},
		{"chars", `"ab".chars()`, "['a', 'b']"},
		{"char_at", `"abc".char_at(1)`, "Some('b')"},
		{"index", `"abc"[0]`, "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustRun(t, tt.src); got != tt.want {
				t.Errorf("%q = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestCollectionMethods(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"dict get", `let mut m = HashMap::new(); m.insert("a", 1); m.get("a")`, "Some(1)"},
		{"dict default", `let m = HashMap::new(); m.get("a", 0)`, "0"},
		{"dict keys order", `let mut m = HashMap::new(); m.insert("b", 1); m.insert("a", 2); m.keys()`, `["b", "a"]`},
		{"dict remove", `let mut m = HashMap::new(); m.insert("a", 1); m.remove("a"); m.len()`, "0"},
		{"set", "let mut s = HashSet::new(); s.insert(1); s.insert(1); s.insert(2); s.len()", "2"},
		{"range sum", "(1..=5).sum()", "15"},
		{"range contains", "(1..5).contains(5)", "false"},
		{"range map", "(1..4).map(x => x * x)", "[1, 4, 9]"},
		{"tuple len", "(1, 2, 3).len()", "3"},
		{"int methods", "let n = -7; n.abs() + n.pow(2)", "56"},
		{"float methods", "let f = 2.5; f.floor()", "2.0"},
		{"option map", "Some(2).map(x => x + 1)", "Some(3)"},
		{"option unwrap_or", "None.unwrap_or(5)", "5"},
		{"result unwrap_or", `Err("e").unwrap_or(0)`, "0"},
		{"result map_err", `Err(1).map_err(x => x + 1)`, "Err(2)"},
		{"and_then", "Some(1).and_then(x => Some(x * 10))", "Some(10)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustRun(t, tt.src); got != tt.want {
				t.Errorf("%q = %s, want %s", tt.src, got, tt.want)
			}
		})
	}

	t.Run("unwrap none", func(t *testing.T) {
		if err := runError(t, "None.unwrap()"); err.Kind != UserError {
			t.Errorf("got %s, want UserError", err.Kind)
		}
	})
}

func TestDataFrames(t *testing.T) {
	const frame = "let df = DataFrame({a: [1, 2, 3], b: [4.0, 5.0, 6.0]}); "
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"rows", "df.rows()", "3"},
		{"columns", "df.columns()", `["a", "b"]`},
		{"sum", `df.sum("a")`, "6.0"},
		{"mean", `df.mean("b")`, "5.0"},
		{"filter", "df.filter(r => r.a > 1).rows()", "2"},
		{"column", "df.column(\"a\").to_list()", "[1, 2, 3]"},
		{"head", "df.head(2).rows()", "2"},
		{"series mean", `Series("x", [1, 2, 3]).mean()`, "2.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustRun(t, frame+tt.src); got != tt.want {
				t.Errorf("%q = %s, want %s", tt.src, got, tt.want)
			}
		})
	}

	t.Run("ragged columns", func(t *testing.T) {
		if err := runError(t, "DataFrame({a: [1, 2], b: [1]})"); err.Kind != IndexOutOfBounds {
			t.Errorf("got %s, want IndexOutOfBounds", err.Kind)
		}
	})
}
