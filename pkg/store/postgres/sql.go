package postgres

import "github.com/meschbach/tradeingest/pkg/store"

const (
	cursorName        = "trade_cursor"
	insertStatementID = "trade_insert"
)

var tradeColumns = []string{"purchase_date", "purchase_price", "stock_name"}

const declareCursorSQL = "DECLARE " + cursorName + " CURSOR FOR" +
	" SELECT purchase_date, purchase_price, stock_name FROM " + store.Extent +
	" WHERE purchase_price > $1 ORDER BY stock_name, purchase_date FOR UPDATE"

const fetchNextSQL = "FETCH NEXT FROM " + cursorName

const updateCurrentSQL = "UPDATE " + store.Extent +
	" SET purchase_date = $1, purchase_price = $2, stock_name = $3 WHERE CURRENT OF " + cursorName

const closeCursorSQL = "CLOSE " + cursorName

const insertSQL = "INSERT INTO " + store.Extent + " (purchase_date, purchase_price, stock_name) VALUES ($1, $2, $3)"
