package response

import "github.com/kasetfair/booth-api/internal/service"

type PoolResponse struct {
	Entries   []service.PoolEntry `json:"entries"`
	Remaining int                 `json:"remaining"`
}

type DrawResponse struct {
	Entry     service.PoolEntry `json:"entry"`
	Remaining int               `json:"remaining"`
}
