package testagg

import "sync"

// Registry maps event handles to tree nodes and links parent/child
// relationships as start events arrive in any order. All methods are safe
// for concurrent use; insertion is atomic per handle and child-list appends
// are serialized per parent node, never globally.
type Registry struct {
	nodes sync.Map // handle ID -> *TestNode

	rootsMu sync.Mutex
	roots   []*TestNode
}

func NewRegistry() *Registry {
	return &Registry{}
}

// OnStart creates (or, for duplicate delivery, reuses) the node for the
// handle and links it into the tree.
func (r *Registry) OnStart(ev StartEvent) *TestNode {
	kind := inferKind(ev.Metadata)
	node, loaded := r.register(ev.Handle, ev.DisplayName, kind, false)
	if loaded {
		// Either a duplicate start or a placeholder left behind by an
		// out-of-order finish; adopt fills in identity only for the latter.
		node.adopt(ev.DisplayName, kind)
	}
	return node
}

// OnFinish records the node's terminal outcome. A finish arriving before its
// start is tolerated: a placeholder node is created so the result is not
// lost.
func (r *Registry) OnFinish(ev FinishEvent, failureMessage string) *TestNode {
	node, ok := r.Lookup(ev.Handle.ID)
	if !ok {
		node, _ = r.register(ev.Handle, ev.Handle.ID, KindTest, true)
	}
	node.setOutcome(ev.Outcome, failureMessage)
	return node
}

// register atomically inserts a node for the handle and links it exactly
// once: under the parent if the parent handle is already registered,
// otherwise into the root set.
func (r *Registry) register(h *Handle, displayName string, kind Kind, placeholder bool) (*TestNode, bool) {
	fresh := newNode(displayName, kind)
	fresh.placeholder = placeholder
	actual, loaded := r.nodes.LoadOrStore(h.ID, fresh)
	node := actual.(*TestNode)
	r.link(h, node)
	return node, loaded
}

func (r *Registry) link(h *Handle, node *TestNode) {
	node.mu.Lock()
	if node.linked {
		node.mu.Unlock()
		return
	}
	node.linked = true
	node.mu.Unlock()

	if h.Parent != nil {
		if parent, ok := r.nodes.Load(h.Parent.ID); ok {
			parent.(*TestNode).appendChild(node)
			return
		}
	}

	r.rootsMu.Lock()
	r.roots = append(r.roots, node)
	r.rootsMu.Unlock()
}

// Lookup returns the node registered for a handle ID.
func (r *Registry) Lookup(id string) (*TestNode, bool) {
	v, ok := r.nodes.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*TestNode), true
}

// NearestTestHandle walks the handle's parent chain and returns the ID of
// the closest ancestor registered as an atomic test. Output events are keyed
// by this ID; an empty return means no test ancestor is known.
func (r *Registry) NearestTestHandle(h *Handle) string {
	for cur := h.Parent; cur != nil; cur = cur.Parent {
		if node, ok := r.Lookup(cur.ID); ok && node.Kind == KindTest {
			return cur.ID
		}
	}
	return ""
}

// Roots returns the tree's entry points in insertion order.
func (r *Registry) Roots() []*TestNode {
	r.rootsMu.Lock()
	defer r.rootsMu.Unlock()
	out := make([]*TestNode, len(r.roots))
	copy(out, r.roots)
	return out
}

// Each visits every registered node. Only called from the single-threaded
// finalize pass.
func (r *Registry) Each(fn func(id string, node *TestNode)) {
	r.nodes.Range(func(k, v interface{}) bool {
		fn(k.(string), v.(*TestNode))
		return true
	})
}
