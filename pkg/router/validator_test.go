package router

import (
	"errors"
	"strings"
	"testing"
)

func validationErrors(t *testing.T, routes []Route) *MultiValidationError {
	t.Helper()
	err := NewValidator(routes).Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	var multiErr *MultiValidationError
	if !errors.As(err, &multiErr) {
		t.Fatalf("expected *MultiValidationError, got %T", err)
	}
	return multiErr
}

func TestValidateStockRoutes(t *testing.T) {
	if err := NewValidator(testRoutes()).Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidateDuplicateName(t *testing.T) {
	routes := testRoutes()
	routes[1].Children[2].Name = "SearchForm"

	multiErr := validationErrors(t, routes)
	if len(multiErr.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(multiErr.Errors), multiErr)
	}
	got := multiErr.Errors[0]
	if got.Type != ErrorDuplicateName {
		t.Errorf("Type = %s, want %s", got.Type, ErrorDuplicateName)
	}
	if !strings.Contains(got.Details, "/stock/:stockcode/predictStock") {
		t.Errorf("Details = %q, want both paths", got.Details)
	}
}

func TestValidateDuplicateSiblingPath(t *testing.T) {
	routes := []Route{
		{Path: "/stock/:code", Name: "A", Component: View("A")},
		{Path: "/stock/:symbol/", Name: "B", Component: View("B")},
	}

	multiErr := validationErrors(t, routes)
	if len(multiErr.Errors) != 1 || multiErr.Errors[0].Type != ErrorDuplicatePath {
		t.Fatalf("errors = %v, want one %s", multiErr, ErrorDuplicatePath)
	}
	if names := multiErr.Errors[0].Names; len(names) != 2 || names[0] != "A" || names[1] != "B" {
		t.Errorf("Names = %v, want [A B]", names)
	}
}

func TestValidateSamePathUnderDifferentParents(t *testing.T) {
	routes := []Route{
		{Path: "/stock/:code", Name: "Stock", Component: View("Stock"), Children: []Route{
			{Path: "current", Name: "StockCurrent", Component: View("Current")},
		}},
		{Path: "/index/:code", Name: "Index", Component: View("Index"), Children: []Route{
			{Path: "current", Name: "IndexCurrent", Component: View("Current")},
		}},
	}
	if err := NewValidator(routes).Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestValidateSegments(t *testing.T) {
	tests := []struct {
		name string
		path string
		want ValidationErrorType
	}{
		{"bare colon", "/stock/:", ErrorMalformedParam},
		{"digit param", "/stock/:1code", ErrorMalformedParam},
		{"dashed param", "/stock/:stock-code", ErrorMalformedParam},
		{"empty segment", "/stock//current", ErrorInvalidSegment},
		{"space", "/stock/a b", ErrorInvalidSegment},
		{"hash", "/stock/#x", ErrorInvalidSegment},
		{"dot", "/stock/./current", ErrorInvalidSegment},
		{"dot dot", "/a/..", ErrorInvalidSegment},
		{"percent escape", "/a%20b", ErrorInvalidSegment},
		{"bare percent", "/stock/100%", ErrorInvalidSegment},
		{"relative top-level", "stock", ErrorInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			multiErr := validationErrors(t, []Route{{Path: tt.path, Name: "R", Component: View("R")}})
			if !multiErr.Has(tt.want) {
				t.Errorf("errors = %v, want %s", multiErr, tt.want)
			}
		})
	}
}

func TestValidateChildPaths(t *testing.T) {
	routes := []Route{
		{Path: "/stock/:code", Name: "Stock", Component: View("Stock"), Children: []Route{
			{Path: "/absolute", Name: "Abs", Component: View("Abs")},
			{Path: ":code", Name: "Again", Component: View("Again")},
		}},
	}

	multiErr := validationErrors(t, routes)
	if !multiErr.Has(ErrorInvalidPath) {
		t.Error("expected INVALID_PATH for absolute child path")
	}
	if !multiErr.Has(ErrorDuplicateParam) {
		t.Error("expected DUPLICATE_PARAM for repeated :code")
	}
}

func TestValidateMissingFields(t *testing.T) {
	multiErr := validationErrors(t, []Route{
		{Path: "/a", Component: View("A")},
		{Path: "/b", Name: "B"},
	})
	if !multiErr.Has(ErrorEmptyName) {
		t.Error("expected EMPTY_NAME")
	}
	if !multiErr.Has(ErrorMissingComponent) {
		t.Error("expected MISSING_COMPONENT")
	}
	if len(multiErr.Errors) != 2 {
		t.Errorf("expected 2 errors, got %d", len(multiErr.Errors))
	}
	if !strings.HasPrefix(multiErr.Error(), "2 route validation errors:") {
		t.Errorf("Error() = %q", multiErr.Error())
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	multiErr := validationErrors(t, []Route{
		{Path: "/", Name: "Home", Component: View("Home")},
		{Path: "/", Name: "Home", Component: View("Home")},
		{Path: "/x/:", Name: "Bad", Component: View("Bad")},
	})

	for _, want := range []ValidationErrorType{ErrorDuplicatePath, ErrorDuplicateName, ErrorMalformedParam} {
		if !multiErr.Has(want) {
			t.Errorf("missing %s in %v", want, multiErr)
		}
	}
}

func TestNewTableRejectsInvalidRoutes(t *testing.T) {
	table, err := NewTable([]Route{
		{Path: "/a", Name: "Same", Component: View("A")},
		{Path: "/b", Name: "Same", Component: View("B")},
	})
	if err == nil {
		t.Fatal("expected error for duplicate names")
	}
	if table != nil {
		t.Error("table should be nil on error")
	}
}

func TestFormatValidationError(t *testing.T) {
	out := FormatValidationError(ValidationError{
		Type:    ErrorDuplicateName,
		Message: "Duplicate route name 'StockInfo'",
		Path:    "/stock/:stockcode",
		Names:   []string{"StockInfo"},
		Details: "Paths: /stock/:stockcode, /quote/:stockcode",
	})

	for _, want := range []string{
		"ERROR: Duplicate route name 'StockInfo'",
		"StockInfo → /stock/:stockcode",
		"Details: Paths:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMultiValidationErrorEmpty(t *testing.T) {
	e := &MultiValidationError{}
	if e.Error() != "no validation errors" {
		t.Errorf("Error() = %q", e.Error())
	}
}
