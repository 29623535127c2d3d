package keyboard

import (
	"fmt"

	"github.com/go-telegram/bot/models"
)

// PaginationButtons ряд ⬅️ N/M ➡️; страницы считаются с нуля
func PaginationButtons(prefix string, currentPage, totalPages int) []models.InlineKeyboardButton {
	if totalPages <= 1 {
		return nil
	}

	var buttons []models.InlineKeyboardButton

	if currentPage > 0 {
		buttons = append(buttons, Button("⬅️", fmt.Sprintf("%s%d", prefix, currentPage-1)))
	}

	buttons = append(buttons, Button(fmt.Sprintf("📄 %d/%d", currentPage+1, totalPages), "noop"))

	if currentPage < totalPages-1 {
		buttons = append(buttons, Button("➡️", fmt.Sprintf("%s%d", prefix, currentPage+1)))
	}

	return buttons
}

func (b *Builder) AddPagination(prefix string, currentPage, totalPages int) *Builder {
	return b.Row(PaginationButtons(prefix, currentPage, totalPages)...)
}

// Page границы страницы [start, end) и число страниц
func Page(total, page, perPage int) (start, end, pages int) {
	if perPage <= 0 {
		perPage = 1
	}
	pages = (total + perPage - 1) / perPage
	if pages == 0 {
		pages = 1
	}
	if page < 0 {
		page = 0
	}
	if page >= pages {
		page = pages - 1
	}
	start = page * perPage
	end = min(start+perPage, total)
	return start, end, pages
}
