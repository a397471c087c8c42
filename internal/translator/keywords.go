package translator

import "github.com/sepcon/go-jas/internal/ast"

// Keywords recognised as one-key operator objects (spec.md §4.3 pipeline
// step 2), grounded on the original engine's include/jas/Keywords.h
// specifier table.
var arithKeywords = map[string]ast.ArithKind{
	"@plus": ast.ArithAdd, "@minus": ast.ArithSub, "@multiplies": ast.ArithMul,
	"@divides": ast.ArithDiv, "@modulus": ast.ArithMod,
	"@bit_and": ast.ArithBitAnd, "@bit_or": ast.ArithBitOr, "@bit_xor": ast.ArithBitXor,
	"@bit_not": ast.ArithBitNot, "@negate": ast.ArithNeg,
}

var selfAssignKeywords = map[string]ast.ArithKind{
	"@plus_assign": ast.ArithAdd, "@minus_assign": ast.ArithSub,
	"@multiplies_assign": ast.ArithMul, "@divides_assign": ast.ArithDiv,
	"@modulus_assign": ast.ArithMod, "@bit_and_assign": ast.ArithBitAnd,
	"@bit_or_assign": ast.ArithBitOr, "@bit_xor_assign": ast.ArithBitXor,
}

var logicalKeywords = map[string]ast.LogicalKind{
	"@and": ast.LogicalAnd, "@or": ast.LogicalOr, "@not": ast.LogicalNot,
}

var comparisonKeywords = map[string]ast.CompareKind{
	"@eq": ast.CmpEq, "@neq": ast.CmpNe, "@lt": ast.CmpLt,
	"@gt": ast.CmpGt, "@le": ast.CmpLe, "@ge": ast.CmpGe,
}

var listAlgoKeywords = map[string]ast.ListAlgoKind{
	"@any_of": ast.AlgoAnyOf, "@all_of": ast.AlgoAllOf, "@none_of": ast.AlgoNoneOf,
	"@count_if": ast.AlgoCountIf, "@filter_if": ast.AlgoFilterIf, "@transform": ast.AlgoTransform,
}

// knownContextFuncs are the function names the translator treats as
// ContextFI candidates regardless of which concrete EvalContext ends up
// bound at evaluation time (spec.md §4.3 step 4's resolution order item
// (a)); HistoricalEvalContext is, per spec.md §4.5, the primary
// implementation exposing all of these.
var knownContextFuncs = map[string]bool{
	"field": true, "field_cv": true, "field_lv": true,
	"snchg": true, "evchg": true, "hfield": true, "hfield2arr": true, "last_eval": true,
}

// evaluatorReservedFuncs are EvaluatorFI names (spec.md §9: "currently
// one: return").
var evaluatorReservedFuncs = map[string]bool{"return": true}

const (
	keywordNoEval  = "@noeval"
	keywordVersion = "$jas.version"
	keywordCond    = "@cond"
	keywordOp      = "@op"
	keywordList    = "@list"
)
