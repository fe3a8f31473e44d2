package api

import (
	"ecoponto_system/internal/domain"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListItems(t *testing.T) {
	r, db := setupRouter(t)
	_, userToken := createUser(t, db, "alice", "standard")
	_, adminToken := createUser(t, db, "root", "admin")
	require.NoError(t, db.Create(&domain.Item{Name: "Tote bag", Price: 1500}).Error)

	// Non-admins are forbidden
	w := doJSON(r, "GET", "/admin/items", userToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, "GET", "/admin/items", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Items []domain.Item `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	require.Equal(t, "Tote bag", resp.Items[0].Name)
}

func TestDeleteItem(t *testing.T) {
	r, db := setupRouter(t)
	_, adminToken := createUser(t, db, "root", "admin")
	item := domain.Item{Name: "Tote bag", Price: 1500}
	require.NoError(t, db.Create(&item).Error)

	// Missing id
	w := doJSON(r, "DELETE", "/admin/items/9999", adminToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	// Deletion returns the removed record
	w = doJSON(r, "DELETE", fmt.Sprintf("/admin/items/%d", item.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Item domain.Item `json:"item"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, item.ID, resp.Item.ID)

	var count int64
	require.NoError(t, db.Model(&domain.Item{}).Count(&count).Error)
	require.Zero(t, count)
}
