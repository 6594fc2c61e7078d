package store

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/rushteam/recbatch/core"
)

func TestMemoryStore_GetSet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	if err := s.Set(ctx, "k1", []byte("v1")); err != nil {
		t.Fatal(err)
	}
	v, err := s.Get(ctx, "k1")
	if err != nil {
		t.Fatal(err)
	}
	if string(v) != "v1" {
		t.Errorf("Get(k1) = %q, want v1", v)
	}

	if _, err := s.Get(ctx, "absent"); !core.IsStoreNotFound(err) {
		t.Errorf("Get(absent) error = %v, want not-found", err)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	if err := s.Set(ctx, "k1", []byte("v1")); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "k1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "k1"); !core.IsStoreNotFound(err) {
		t.Errorf("Get after Delete error = %v, want not-found", err)
	}

	// 删除不存在的 key 不报错
	if err := s.Delete(ctx, "absent"); err != nil {
		t.Errorf("Delete(absent) = %v", err)
	}
}

func TestMemoryStore_Batch(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	kvs := map[string][]byte{
		"a": []byte("1"),
		"b": []byte("2"),
	}
	if err := s.BatchSet(ctx, kvs); err != nil {
		t.Fatal(err)
	}

	// 缺失的 key 直接省略，不报错
	got, err := s.BatchGet(ctx, []string{"a", "b", "missing"})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, kvs) {
		t.Errorf("BatchGet = %v, want %v", got, kvs)
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", n)
			if err := s.Set(ctx, key, []byte("v")); err != nil {
				t.Errorf("Set(%s): %v", key, err)
			}
			if _, err := s.Get(ctx, key); err != nil {
				t.Errorf("Get(%s): %v", key, err)
			}
		}(i)
	}
	wg.Wait()
}

func TestMemoryStore_Name(t *testing.T) {
	if name := NewMemoryStore().Name(); name != "memory" {
		t.Errorf("Name() = %q, want memory", name)
	}
}
