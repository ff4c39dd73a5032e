package filter

import (
	"reflect"
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
)

func baseSelect() squirrel.SelectBuilder {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select("SB2.B2_COD").
		From("SB2010 SB2").
		Where(Live("SB2"))
}

func TestApply_Operators(t *testing.T) {
	since := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		items    []Item
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "prefix trims and appends wildcard",
			items:    []Item{Text("SB2.B2_FILIAL", " 01")},
			wantSQL:  "SELECT SB2.B2_COD FROM SB2010 SB2 WHERE SB2.D_E_L_E_T_ = ' ' AND SB2.B2_FILIAL LIKE $1",
			wantArgs: []any{"01%"},
		},
		{
			name:     "prefix escapes metacharacters",
			items:    []Item{Text("SB2.B2_COD", "A_1%")},
			wantSQL:  "SELECT SB2.B2_COD FROM SB2010 SB2 WHERE SB2.D_E_L_E_T_ = ' ' AND SB2.B2_COD LIKE $1",
			wantArgs: []any{`A\_1\%%`},
		},
		{
			name:     "empty value is omitted",
			items:    []Item{Text("SB2.B2_FILIAL", ""), Text("SB2.B2_LOCAL", "   ")},
			wantSQL:  "SELECT SB2.B2_COD FROM SB2010 SB2 WHERE SB2.D_E_L_E_T_ = ' '",
			wantArgs: nil,
		},
		{
			name:     "equal",
			items:    []Item{Eq("SC5.C5_TIPO", "N")},
			wantSQL:  "SELECT SB2.B2_COD FROM SB2010 SB2 WHERE SB2.D_E_L_E_T_ = ' ' AND SC5.C5_TIPO = $1",
			wantArgs: []any{"N"},
		},
		{
			name:     "since uses date key",
			items:    []Item{Since("SD3.D3_EMISSAO", since)},
			wantSQL:  "SELECT SB2.B2_COD FROM SB2010 SB2 WHERE SB2.D_E_L_E_T_ = ' ' AND SD3.D3_EMISSAO >= $1",
			wantArgs: []any{"20260115"},
		},
		{
			name:     "zero time is omitted",
			items:    []Item{Since("SD3.D3_EMISSAO", time.Time{})},
			wantSQL:  "SELECT SB2.B2_COD FROM SB2010 SB2 WHERE SB2.D_E_L_E_T_ = ' '",
			wantArgs: nil,
		},
		{
			name:     "positive",
			items:    []Item{Positive("SD3.D3_QUANT")},
			wantSQL:  "SELECT SB2.B2_COD FROM SB2010 SB2 WHERE SB2.D_E_L_E_T_ = ' ' AND SD3.D3_QUANT > $1",
			wantArgs: []any{0},
		},
		{
			name:     "in list",
			items:    []Item{OneOf("SD3.D3_TM", "501", " ", "999")},
			wantSQL:  "SELECT SB2.B2_COD FROM SB2010 SB2 WHERE SB2.D_E_L_E_T_ = ' ' AND SD3.D3_TM IN ($1,$2)",
			wantArgs: []any{"501", "999"},
		},
		{
			name:     "blank",
			items:    []Item{Blank("SC9.C9_NFISCAL")},
			wantSQL:  "SELECT SB2.B2_COD FROM SB2010 SB2 WHERE SB2.D_E_L_E_T_ = ' ' AND COALESCE(TRIM(SC9.C9_NFISCAL), '') = ''",
			wantArgs: nil,
		},
		{
			name:     "not blank",
			items:    []Item{NotBlank("SC5.C5_NOTA")},
			wantSQL:  "SELECT SB2.B2_COD FROM SB2010 SB2 WHERE SB2.D_E_L_E_T_ = ' ' AND COALESCE(TRIM(SC5.C5_NOTA), '') <> ''",
			wantArgs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Apply(baseSelect(), tt.items...)
			if err != nil {
				t.Fatalf("Apply failed: %v", err)
			}

			sql, args, err := q.ToSql()
			if err != nil {
				t.Fatalf("ToSql failed: %v", err)
			}

			if sql != tt.wantSQL {
				t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", tt.wantSQL, sql)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("Args count mismatch\nwant: %d\ngot:  %d", len(tt.wantArgs), len(args))
			}
			for i := range args {
				if !reflect.DeepEqual(args[i], tt.wantArgs[i]) {
					t.Errorf("Arg %d mismatch\nwant: %v\ngot:  %v", i, tt.wantArgs[i], args[i])
				}
			}
		})
	}
}

func TestApply_EmptyFilterEqualsOmitted(t *testing.T) {
	withEmpty, err := Apply(baseSelect(), Text("SB2.B2_FILIAL", ""))
	if err != nil {
		t.Fatal(err)
	}
	a, _, _ := withEmpty.ToSql()
	b, _, _ := baseSelect().ToSql()
	if a != b {
		t.Errorf("empty filter changed the query\nwant: %s\ngot:  %s", b, a)
	}
}

func TestToSqlizer_Errors(t *testing.T) {
	if _, _, err := ToSqlizer(Item{Operator: Equal, Value: "x"}); err == nil {
		t.Error("expected error for empty field")
	}
	if _, _, err := ToSqlizer(Item{Field: "f", Operator: "regex", Value: "x"}); err == nil {
		t.Error("expected error for unknown operator")
	}
	if _, _, err := ToSqlizer(Item{Field: "f", Operator: StartsWith, Value: 10}); err == nil {
		t.Error("expected error for non-string prefix")
	}
}

func TestWindows(t *testing.T) {
	now := time.Date(2026, 3, 31, 15, 4, 5, 0, time.UTC)

	if got, want := DaysAgo(now, 0), time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("DaysAgo(0) = %v, want %v", got, want)
	}
	if got, want := DaysAgo(now, 2), time.Date(2026, 3, 29, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("DaysAgo(2) = %v, want %v", got, want)
	}
	if got, want := DateKey(MonthsAgo(now, 4)), "20251201"; got != want {
		// March 31 minus 4 months normalizes Nov 31 to Dec 1.
		t.Errorf("MonthsAgo(4) = %s, want %s", got, want)
	}
	if DateKey(time.Time{}) != "" {
		t.Error("zero time must produce an empty key")
	}
}
