// Package seed holds the sample rows loaded on every run and the report
// queries printed afterwards.
package seed

import (
	"database/sql"
	"time"

	"foodorder/internal/domain"
	"foodorder/internal/schema"
)

// Batch is one parameterized insert and the rows bound to it.
type Batch struct {
	Table    string
	Template string
	Rows     [][]any
}

// Section is one printed block of the report.
type Section struct {
	Title string
	Query string
}

const (
	insertCategories     = "INSERT INTO Categories (category_id, name) VALUES (?, ?)"
	insertDishes         = "INSERT INTO Dishes (dish_id, category_id, name, description, price) VALUES (?, ?, ?, ?, ?)"
	insertOrders         = "INSERT INTO Orders (order_id, user_id, total_price, status, created_at) VALUES (?, ?, ?, ?, ?)"
	insertOrderDetails   = "INSERT INTO OrderDetails (order_detail_id, order_id, dish_id, quantity, price) VALUES (?, ?, ?, ?, ?)"
	insertPaymentMethods = "INSERT INTO PaymentMethods (payment_method_id, method) VALUES (?, ?)"
	insertPayments       = "INSERT INTO Payments (payment_id, order_id, payment_method_id, amount, paid_at) VALUES (?, ?, ?, ?, ?)"
	insertReviews        = "INSERT INTO Reviews (review_id, user_id, dish_id, rating, comment, created_at) VALUES (?, ?, ?, ?, ?, ?)"
)

// Batches returns the sample data in the same dependency order as the tables.
func Batches() []Batch {
	return []Batch{
		{Table: schema.Categories, Template: insertCategories, Rows: domain.Tuples(
			domain.Category{ID: 1, Name: "Appetizers"},
			domain.Category{ID: 2, Name: "Main Courses"},
		)},
		{Table: schema.Dishes, Template: insertDishes, Rows: domain.Tuples(
			domain.Dish{ID: 1, CategoryID: id(1), Name: "Caesar Salad", Description: text("Classic Caesar with chicken"), Price: price(290.0)},
			domain.Dish{ID: 2, CategoryID: id(2), Name: "Steak", Description: text("Grilled steak with sauce"), Price: price(550.0)},
		)},
		{Table: schema.Orders, Template: insertOrders, Rows: domain.Tuples(
			domain.Order{ID: 1, UserID: 101, TotalPrice: price(840.0), Status: text("Pending"), CreatedAt: at("2023-10-12 18:30:00")},
			domain.Order{ID: 2, UserID: 102, TotalPrice: price(400.0), Status: text("Ready for delivery"), CreatedAt: at("2023-10-13 20:20:00")},
		)},
		{Table: schema.OrderDetails, Template: insertOrderDetails, Rows: domain.Tuples(
			domain.OrderDetail{ID: 1, OrderID: id(1), DishID: id(1), Quantity: id(2), Price: price(580.0)},
			domain.OrderDetail{ID: 2, OrderID: id(2), DishID: id(2), Quantity: id(1), Price: price(550.0)},
		)},
		{Table: schema.PaymentMethods, Template: insertPaymentMethods, Rows: domain.Tuples(
			domain.PaymentMethod{ID: 1, Method: "Card"},
			domain.PaymentMethod{ID: 2, Method: "Cash"},
		)},
		{Table: schema.Payments, Template: insertPayments, Rows: domain.Tuples(
			domain.Payment{ID: 1, OrderID: id(1), PaymentMethodID: id(1), Amount: price(840.0), PaidAt: at("2023-10-12 18:35:00")},
			domain.Payment{ID: 2, OrderID: id(2), PaymentMethodID: id(2), Amount: price(400.0), PaidAt: at("2023-10-13 20:25:00")},
		)},
		{Table: schema.Reviews, Template: insertReviews, Rows: domain.Tuples(
			domain.Review{ID: 1, UserID: id(101), DishID: id(1), Rating: id(5), Comment: text("Fresh and crisp"), CreatedAt: at("2023-10-12 19:10:00")},
			domain.Review{ID: 2, UserID: id(102), DishID: id(2), Rating: id(4), Comment: text("A bit overcooked"), CreatedAt: at("2023-10-13 21:00:00")},
		)},
	}
}

// Sections returns the report blocks in print order.
func Sections() []Section {
	return []Section{
		{Title: "Categories:", Query: "SELECT * FROM Categories"},
		{Title: "Dishes:", Query: "SELECT * FROM Dishes"},
		{Title: "Orders:", Query: "SELECT * FROM Orders"},
	}
}

func id(v int64) sql.NullInt64 { return sql.NullInt64{Int64: v, Valid: true} }

func text(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }

func price(v float64) sql.NullFloat64 { return sql.NullFloat64{Float64: v, Valid: true} }

func at(s string) sql.NullTime {
	t, err := time.Parse(domain.TimeLayout, s)
	if err != nil {
		panic("seed: bad timestamp " + s)
	}
	return sql.NullTime{Time: t, Valid: true}
}
