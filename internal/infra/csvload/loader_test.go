package csvload

import (
	"testing"

	"github.com/bryanwahyu/askdata/internal/domain/dataset"
)

func TestLoadInfersTypes(t *testing.T) {
	data := []byte("name,age,salary,joined\n" +
		"ana,25,4000,2024-01-15\n" +
		"budi,32,5200,2023-06-01\n" +
		"citra,41,7100,2022-11-20\n")
	tab, err := Load("people.csv", data)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tab.NumRows() != 3 || tab.NumCols() != 4 {
		t.Fatalf("shape: %dx%d", tab.NumRows(), tab.NumCols())
	}

	want := map[string]dataset.DType{
		"name":   dataset.Categorical,
		"age":    dataset.Numeric,
		"salary": dataset.Numeric,
		"joined": dataset.Datetime,
	}
	for name, dt := range want {
		c, ok := tab.Column(name)
		if !ok {
			t.Fatalf("missing column %s", name)
		}
		if c.Type != dt {
			t.Fatalf("%s: got %v want %v", name, c.Type, dt)
		}
	}
}

func TestLoadThousandsSeparator(t *testing.T) {
	data := []byte("amount\n\"1,200\"\n\"3,400.50\"\n")
	tab, err := Load("amounts.csv", data)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c, _ := tab.Column("amount")
	if c.Type != dataset.Numeric {
		t.Fatalf("type: %v", c.Type)
	}
	if v, ok := c.FloatAt(0); !ok || v != 1200 {
		t.Fatalf("first value: %v %v", v, ok)
	}
}

func TestLoadEmptyCellsBecomeNulls(t *testing.T) {
	data := []byte("v,w\n1,x\n,y\n3,z\n")
	tab, err := Load("sparse.csv", data)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c, _ := tab.Column("v")
	if c.Type != dataset.Numeric {
		t.Fatalf("type: %v", c.Type)
	}
	if c.NullCount() != 1 {
		t.Fatalf("nulls: got %d want 1", c.NullCount())
	}
}

func TestLoadMixedColumnIsCategorical(t *testing.T) {
	data := []byte("code\n12\nabc\n34\n")
	tab, err := Load("codes.csv", data)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c, _ := tab.Column("code")
	if c.Type != dataset.Categorical {
		t.Fatalf("type: %v", c.Type)
	}
}

func TestLoadBlankHeaderGetsName(t *testing.T) {
	data := []byte("a,\n1,2\n")
	tab, err := Load("x.csv", data)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := tab.Column("column_2"); !ok {
		t.Fatalf("columns: %v", tab.ColumnNames())
	}
}

func TestLoadNoHeaderFails(t *testing.T) {
	if _, err := Load("empty.csv", []byte("")); err == nil {
		t.Fatal("expected error for empty file")
	}
}
