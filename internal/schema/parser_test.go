package schema

import (
	"reflect"
	"testing"
)

const shopSchema = `CREATE TABLE Customers (
    customer_id INT PRIMARY KEY AUTO_INCREMENT,
    first_name VARCHAR(50) NOT NULL,
    last_name VARCHAR(50) NOT NULL,
    email VARCHAR(100) UNIQUE NOT NULL,
    phone VARCHAR(20),
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE Products (
    product_id INT PRIMARY KEY AUTO_INCREMENT,
    product_name VARCHAR(100) NOT NULL,
    description TEXT,
    price DECIMAL(10,2) NOT NULL,
    stock INT DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE Orders (
    order_id INT PRIMARY KEY AUTO_INCREMENT,
    customer_id INT NOT NULL,
    order_date DATETIME DEFAULT CURRENT_TIMESTAMP,
    status VARCHAR(20) DEFAULT 'Pending',
    total_amount DECIMAL(10,2),
    FOREIGN KEY (customer_id) REFERENCES Customers(customer_id)
);`

// ---------------------------------------------------------------------------
// Parse
// ---------------------------------------------------------------------------

func TestParse_NoCreateTable(t *testing.T) {
	inputs := []string{
		"",
		"   \n\t",
		"SELECT * FROM users;",
		"CREATE INDEX idx ON users (name);",
		"CREATE TABLE broken (id INT", // never closed
		"-- CREATE VIEW v AS SELECT 1;",
	}
	for _, in := range inputs {
		got := Parse(in)
		if got == nil {
			t.Errorf("Parse(%q) = nil, want empty non-nil slice", in)
		}
		if len(got) != 0 {
			t.Errorf("Parse(%q) = %d tables, want 0", in, len(got))
		}
	}
}

func TestParse_SingleLine(t *testing.T) {
	got := Parse("CREATE TABLE t (id INT PRIMARY KEY, name VARCHAR(50) NOT NULL);")

	want := []Table{{
		Name: "t",
		Columns: []Column{
			{Name: "id", Type: "INT", IsPrimaryKey: true},
			{Name: "name", Type: "VARCHAR(50)", IsNotNull: true},
		},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %+v, want %+v", got, want)
	}
}

func TestParse_ExampleSchema(t *testing.T) {
	tables := Parse(shopSchema)
	if len(tables) != 3 {
		t.Fatalf("Parse() = %d tables, want 3", len(tables))
	}

	names := []string{tables[0].Name, tables[1].Name, tables[2].Name}
	if !reflect.DeepEqual(names, []string{"Customers", "Products", "Orders"}) {
		t.Errorf("table order = %v", names)
	}

	customers := tables[0]
	if len(customers.Columns) != 6 {
		t.Fatalf("Customers has %d columns, want 6", len(customers.Columns))
	}
	email := customers.Columns[3]
	if email.Name != "email" || email.Type != "VARCHAR(100)" || !email.IsUnique || !email.IsNotNull || email.IsPrimaryKey {
		t.Errorf("email column = %+v", email)
	}

	price, ok := tables[1].Column("price")
	if !ok {
		t.Fatal("Products.price not found")
	}
	if price.Type != "DECIMAL(10,2)" {
		t.Errorf("price type = %q, want DECIMAL(10,2)", price.Type)
	}

	// The FOREIGN KEY line never becomes a column.
	orders := tables[2]
	if len(orders.Columns) != 5 {
		t.Errorf("Orders has %d columns, want 5: %+v", len(orders.Columns), orders.Columns)
	}
}

func TestParse_ConstraintLinesSkipped(t *testing.T) {
	ddl := `CREATE TABLE memberships (
    user_id INT,
    group_id INT,
    unique_code VARCHAR(8),
    CHECKSUM INT,
    CONSTRAINTS_ID INT,
    PRIMARY KEY (user_id, group_id),
    UNIQUE (unique_code),
    check (user_id > 0),
    constraint fk_user foreign key (user_id) references users(id),
    Foreign Key (group_id) REFERENCES groups(id)
);`
	tables := Parse(ddl)
	if len(tables) != 1 {
		t.Fatalf("Parse() = %d tables, want 1", len(tables))
	}
	var names []string
	for _, c := range tables[0].Columns {
		names = append(names, c.Name)
	}
	// A keyword must end at a word boundary to mark a constraint line.
	want := []string{"user_id", "group_id", "unique_code", "CHECKSUM", "CONSTRAINTS_ID"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("columns = %v, want %v", names, want)
	}
}

func TestParse_UnmatchedLinesDropped(t *testing.T) {
	ddl := `create table events (
    id BIGINT,
    42 INT,
    payload,
    ts TIMESTAMP
);`
	tables := Parse(ddl)
	if len(tables) != 1 {
		t.Fatalf("Parse() = %d tables, want 1", len(tables))
	}
	if tables[0].Name != "events" {
		t.Errorf("name = %q, want events", tables[0].Name)
	}
	var names []string
	for _, c := range tables[0].Columns {
		names = append(names, c.Name)
	}
	// "42 INT" still matches: \w covers digits, exactly as the column shape allows.
	want := []string{"id", "42", "ts"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("columns = %v, want %v", names, want)
	}
}

func TestParse_TypeToken(t *testing.T) {
	tests := []struct {
		def  string
		want string
	}{
		{"a INT", "INT"},
		{"a varchar(255) NOT NULL", "varchar(255)"},
		{"a DECIMAL(10,2)", "DECIMAL(10,2)"},
		{"a DOUBLE PRECISION", "DOUBLE"},
		{"a INT8", "INT"},
		{"a TIMESTAMP WITH TIME ZONE", "TIMESTAMP"},
	}
	for _, tt := range tests {
		tables := Parse("CREATE TABLE x (\n" + tt.def + "\n);")
		if len(tables) != 1 || len(tables[0].Columns) != 1 {
			t.Errorf("Parse(%q) did not yield one column: %+v", tt.def, tables)
			continue
		}
		if got := tables[0].Columns[0].Type; got != tt.want {
			t.Errorf("type of %q = %q, want %q", tt.def, got, tt.want)
		}
	}
}

func TestParse_FlagsAreCaseSensitive(t *testing.T) {
	tables := Parse("CREATE TABLE x (\nid int primary key not null unique\n);")
	c := tables[0].Columns[0]
	if c.IsPrimaryKey || c.IsNotNull || c.IsUnique {
		t.Errorf("lower-case flags should not be detected: %+v", c)
	}
}

func TestParse_QuotedCommaStaysInDefinition(t *testing.T) {
	tables := Parse("CREATE TABLE x (status VARCHAR(20) DEFAULT 'a,b', n INT);")
	if len(tables[0].Columns) != 2 {
		t.Fatalf("columns = %+v, want 2", tables[0].Columns)
	}
	if tables[0].Columns[1].Name != "n" {
		t.Errorf("second column = %q, want n", tables[0].Columns[1].Name)
	}
}

func TestParse_DuplicateNames(t *testing.T) {
	c := Load("CREATE TABLE a (x INT);\nCREATE TABLE a (y INT);")
	if len(c.Tables) != 2 {
		t.Fatalf("tables = %d, want 2", len(c.Tables))
	}
	got, ok := c.Table("a")
	if !ok {
		t.Fatal("Table(a) not found")
	}
	if got.Columns[0].Name != "y" {
		t.Errorf("Table(a) = %+v, want last declaration", got)
	}
}

// ---------------------------------------------------------------------------
// ParseRelationships
// ---------------------------------------------------------------------------

func TestParseRelationships_Single(t *testing.T) {
	ddl := `CREATE TABLE users (id INT PRIMARY KEY);
CREATE TABLE orders (
    id INT PRIMARY KEY,
    user_id INT,
    FOREIGN KEY (user_id) REFERENCES users(id));`

	got := ParseRelationships(ddl)
	want := []Relationship{{FromTable: "orders", FromColumn: "user_id", ToTable: "users", ToColumn: "id"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseRelationships() = %+v, want %+v", got, want)
	}
}

func TestParseRelationships_ExampleSchema(t *testing.T) {
	got := ParseRelationships(shopSchema)
	want := []Relationship{{FromTable: "Orders", FromColumn: "customer_id", ToTable: "Customers", ToColumn: "customer_id"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseRelationships() = %+v, want %+v", got, want)
	}
}

func TestParseRelationships_MultiplePerLine(t *testing.T) {
	ddl := "CREATE TABLE links (a INT, b INT, FOREIGN KEY (a) REFERENCES nodes(id), foreign key(b) references nodes (id));"
	got := ParseRelationships(ddl)
	if len(got) != 2 {
		t.Fatalf("got %d relationships, want 2: %+v", len(got), got)
	}
	if got[0].FromColumn != "a" || got[1].FromColumn != "b" {
		t.Errorf("relationships = %+v", got)
	}
	for _, r := range got {
		if r.FromTable != "links" || r.ToTable != "nodes" || r.ToColumn != "id" {
			t.Errorf("relationship = %+v", r)
		}
	}
}

func TestParseRelationships_NoCurrentTable(t *testing.T) {
	got := ParseRelationships("FOREIGN KEY (a) REFERENCES b(c)")
	if len(got) != 0 {
		t.Errorf("got %+v, want none before any CREATE TABLE", got)
	}
}

func TestParseRelationships_UnparsedTableStillTracked(t *testing.T) {
	// The statement never closes, so Parse ignores it, but the relationship
	// is still attributed to it.
	ddl := "CREATE TABLE ghost (\n  owner INT,\n  FOREIGN KEY (owner) REFERENCES people(id)\n"
	if tables := Parse(ddl); len(tables) != 0 {
		t.Fatalf("Parse() = %+v, want none", tables)
	}
	got := ParseRelationships(ddl)
	if len(got) != 1 || got[0].FromTable != "ghost" || got[0].ToTable != "people" {
		t.Errorf("ParseRelationships() = %+v", got)
	}
}

func TestLoad(t *testing.T) {
	c := Load(shopSchema)
	if len(c.Tables) != 3 || len(c.Relationships) != 1 {
		t.Errorf("Load() = %d tables, %d relationships", len(c.Tables), len(c.Relationships))
	}
	if _, ok := c.Table("Nope"); ok {
		t.Error("Table(Nope) found")
	}
	var nilCatalog *Catalog
	if _, ok := nilCatalog.Table("x"); ok {
		t.Error("nil catalog lookup should fail")
	}
}
