/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := OpenCatalog(filepath.Join(t.TempDir(), "catalog.sqlite"))
	if err != nil {
		t.Fatalf("OpenCatalog error: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCatalogRegisterAndList(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()
	if err := c.RegisterBoard(ctx, "Beta", "/boards/beta"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := c.RegisterBoard(ctx, "alpha", "/boards/alpha"); err != nil {
		t.Fatalf("register: %v", err)
	}
	list, err := c.ListBoards(ctx, CatalogSortName)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Name != "alpha" || list[1].Name != "Beta" {
		t.Fatalf("unexpected name order: %+v", list)
	}
}

func TestCatalogRegisterSamePathUpdates(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()
	if err := c.RegisterBoard(ctx, "Old", "/boards/x"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := c.RegisterBoard(ctx, "New", "/boards/x"); err != nil {
		t.Fatalf("re-register: %v", err)
	}
	list, err := c.ListBoards(ctx, "")
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one entry: %v %+v", err, list)
	}
	if list[0].Name != "New" {
		t.Fatalf("name not refreshed: %+v", list[0])
	}
}

func TestCatalogRenameAndRemove(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()
	if err := c.RegisterBoard(ctx, "Sketch", "/boards/sketch"); err != nil {
		t.Fatalf("register: %v", err)
	}
	list, _ := c.ListBoards(ctx, "")
	id := list[0].ID
	if err := c.RenameBoard(ctx, id, "Plan"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	list, _ = c.ListBoards(ctx, "")
	if list[0].Name != "Plan" {
		t.Fatalf("rename not applied: %+v", list[0])
	}
	if err := c.RemoveBoard(ctx, id); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if list, _ := c.ListBoards(ctx, ""); len(list) != 0 {
		t.Fatalf("entry not removed: %+v", list)
	}
	if err := c.RemoveBoard(ctx, id); err == nil {
		t.Fatalf("removing a missing entry should fail")
	}
}

func TestCatalogUnknownSortRejected(t *testing.T) {
	c := openTestCatalog(t)
	if _, err := c.ListBoards(context.Background(), "sideways"); err == nil {
		t.Fatalf("expected error for unknown sort")
	}
}
