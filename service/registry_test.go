package service

import "testing"

func TestRegistryAddRemove(t *testing.T) {
	r := NewRegistry()

	a := NewClient(&fakeConn{})
	b := NewClient(&fakeConn{})
	r.Add(a)
	r.Add(b)

	if r.Len() != 2 {
		t.Fatalf("Len = %d, want 2", r.Len())
	}

	if !r.Remove(a.ID) {
		t.Error("first Remove should report removal")
	}
	if r.Remove(a.ID) {
		t.Error("second Remove of same connection should be a no-op")
	}
	if r.Len() != 1 {
		t.Fatalf("Len = %d, want 1", r.Len())
	}
}

func TestRegistryFindByUser(t *testing.T) {
	r := NewRegistry()

	// 同一用户的两个标签页，外加另一个用户和一条匿名连接
	tab1 := NewClient(&fakeConn{})
	tab1.Bind("u1", "alice")
	tab2 := NewClient(&fakeConn{})
	tab2.Bind("u1", "alice")
	other := NewClient(&fakeConn{})
	other.Bind("u2", "bob")
	anon := NewClient(&fakeConn{})

	for _, c := range []*Client{tab1, tab2, other, anon} {
		r.Add(c)
	}

	if got := r.FindByUser("u1"); len(got) != 2 {
		t.Errorf("FindByUser(u1) returned %d connections, want 2", len(got))
	}
	if got := r.FindByUser("u2"); len(got) != 1 {
		t.Errorf("FindByUser(u2) returned %d connections, want 1", len(got))
	}
	if got := r.FindByUser("missing"); got != nil {
		t.Errorf("FindByUser(missing) = %v, want nil", got)
	}
	// 空userID不能把匿名连接当成命中
	if got := r.FindByUser(""); got != nil {
		t.Errorf("FindByUser(\"\") = %v, want nil", got)
	}
}

func TestRegistrySnapshotIsPointInTime(t *testing.T) {
	r := NewRegistry()

	a := NewClient(&fakeConn{})
	r.Add(a)

	snap := r.Snapshot()

	r.Add(NewClient(&fakeConn{}))
	r.Remove(a.ID)

	if len(snap) != 1 || snap[0] != a {
		t.Errorf("snapshot changed after registry mutation: %v", snap)
	}
}
