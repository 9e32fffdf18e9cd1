// Package schema creates the food-ordering tables.
//
// Tables are created with CREATE TABLE IF NOT EXISTS, one statement per table,
// referenced tables first. Foreign keys are declared in the DDL; whether SQLite
// enforces them is a connection setting (see sqlite.DBOptions.ForeignKeys).
package schema

import (
	"fmt"

	"foodorder/internal/shared"
)

// Table names.
const (
	Categories     = "Categories"
	Dishes         = "Dishes"
	Orders         = "Orders"
	OrderDetails   = "OrderDetails"
	PaymentMethods = "PaymentMethods"
	Payments       = "Payments"
	Reviews        = "Reviews"
)

// Table is one schema-definition statement and the tables it references.
type Table struct {
	Name       string
	DDL        string
	References []string
}

var tables = []Table{
	{
		Name: Categories,
		DDL: `CREATE TABLE IF NOT EXISTS Categories (
    category_id INTEGER PRIMARY KEY,
    name TEXT NOT NULL
);`,
	},
	{
		Name:       Dishes,
		References: []string{Categories},
		DDL: `CREATE TABLE IF NOT EXISTS Dishes (
    dish_id INTEGER PRIMARY KEY,
    category_id INTEGER,
    name TEXT NOT NULL,
    description TEXT,
    price REAL,
    FOREIGN KEY (category_id) REFERENCES Categories (category_id)
);`,
	},
	{
		Name: Orders,
		DDL: `CREATE TABLE IF NOT EXISTS Orders (
    order_id INTEGER PRIMARY KEY,
    user_id INTEGER NOT NULL,
    total_price REAL,
    status TEXT,
    created_at DATETIME
);`,
	},
	{
		Name:       OrderDetails,
		References: []string{Orders, Dishes},
		DDL: `CREATE TABLE IF NOT EXISTS OrderDetails (
    order_detail_id INTEGER PRIMARY KEY,
    order_id INTEGER,
    dish_id INTEGER,
    quantity INTEGER,
    price REAL,
    FOREIGN KEY (order_id) REFERENCES Orders (order_id),
    FOREIGN KEY (dish_id) REFERENCES Dishes (dish_id)
);`,
	},
	{
		Name: PaymentMethods,
		DDL: `CREATE TABLE IF NOT EXISTS PaymentMethods (
    payment_method_id INTEGER PRIMARY KEY,
    method TEXT NOT NULL
);`,
	},
	{
		Name:       Payments,
		References: []string{Orders, PaymentMethods},
		DDL: `CREATE TABLE IF NOT EXISTS Payments (
    payment_id INTEGER PRIMARY KEY,
    order_id INTEGER,
    payment_method_id INTEGER,
    amount REAL,
    paid_at DATETIME,
    FOREIGN KEY (order_id) REFERENCES Orders (order_id),
    FOREIGN KEY (payment_method_id) REFERENCES PaymentMethods (payment_method_id)
);`,
	},
	{
		Name:       Reviews,
		References: []string{Dishes},
		DDL: `CREATE TABLE IF NOT EXISTS Reviews (
    review_id INTEGER PRIMARY KEY,
    user_id INTEGER,
    dish_id INTEGER,
    rating INTEGER,
    comment TEXT,
    created_at DATETIME,
    FOREIGN KEY (dish_id) REFERENCES Dishes (dish_id)
);`,
	},
}

// Tables returns the seven tables in creation order.
func Tables() []Table {
	out := make([]Table, len(tables))
	copy(out, tables)
	return out
}

// Names returns the table names in creation order.
func Names() []string {
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	return names
}

// Validate checks that names are unique and every referenced table comes
// earlier in the slice.
func Validate(ts []Table) error {
	seen := make(map[string]bool, len(ts))
	for i, t := range ts {
		if err := shared.Invariant(t.Name != "", "table %d has no name", i); err != nil {
			return err
		}
		if err := shared.Invariant(!seen[t.Name], "table %s defined twice", t.Name); err != nil {
			return err
		}
		for _, ref := range t.References {
			if !seen[ref] {
				return shared.MarkKind(fmt.Errorf("table %s references %s before it is created", t.Name, ref), shared.KindValidation)
			}
		}
		seen[t.Name] = true
	}
	return nil
}
