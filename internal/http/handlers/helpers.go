package handlers

import (
	"strconv"

	"lafelle.com/app/internal/catalogapi"
	"lafelle.com/app/internal/shared/apperr"
)

func parseInt(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func upstream(msg string, err error) *apperr.AppError {
	return apperr.FromUpstream(catalogapi.StatusOf(err), msg, err)
}
