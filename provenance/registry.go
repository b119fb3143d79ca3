package provenance

import (
	"sync"
	"time"
)

const (
	logMsgNodeRegistered        = "operation registered"
	logMsgRegistrationRejected  = "operation registration rejected"
	logMsgTreeBuilt             = "operation tree built"
	logMsgRegistryCleared       = "registry cleared"
	logAttrError                = "error"
	logAttrOperationID          = "operation_id"
	logAttrOperationType        = "operation_type"
	logAttrInputCount           = "input_count"
	logAttrNodeCount            = "node_count"
	logAttrSequence             = "sequence"
	metricRegistrySize          = "provenance_registry_size"
	metricRegistrationsRejected = "provenance_registrations_rejected_total"
	labelReason                 = "reason"
	labelReasonDuplicateID      = "duplicate_id"
	labelReasonUnknownInput     = "unknown_input"
	labelReasonInvalidNode      = "invalid_node"
)

const initialIDCounter uint64 = 0

// Registry is the append-only store of OperationNode(s).
//
// Ids are unique until Clear is called, every input id of a registered node refers to a node registered
// before it (so the graph is acyclic by construction), and registered nodes are never modified or removed
// except by Clear. All methods are safe for concurrent use; readers always see a consistent, monotonically
// growing view of the registry.
type Registry struct {
	mu               sync.RWMutex
	nodes            map[OperationID]OperationNode
	ordered          OperationIDs
	idCounter        uint64
	generation       uint64
	idFormat         IDFormat
	now              func() time.Time
	logger           Logger
	metricsCollector MetricsCollector
}

// NewRegistry creates a new, empty Registry with optional configuration.
func NewRegistry(options ...Option) (*Registry, error) {
	r := &Registry{
		nodes:     make(map[OperationID]OperationNode),
		ordered:   make(OperationIDs, 0),
		idCounter: initialIDCounter,
		idFormat:  CounterIDs(),
		now:       time.Now,
	}

	for _, option := range options {
		if err := option(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// GenerateID returns a fresh OperationID, distinct from every id generated since construction or the last Clear.
func (r *Registry) GenerateID() OperationID {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.idCounter++

	return r.idFormat.Format(r.idCounter)
}

// Register stores the node under its id and assigns its sequence number and creation time.
//
// Registering an id twice is a caller error: the existing node is kept and ErrDuplicateOperationID is returned.
// Every input id must already be registered, otherwise ErrUnknownInputOperation is returned.
func (r *Registry) Register(node OperationNode) error {
	if err := r.validateBuilt(node); err != nil {
		r.rejectRegistration(node, err, labelReasonInvalidNode)
		return err
	}

	r.mu.Lock()

	if _, exists := r.nodes[node.id]; exists {
		r.mu.Unlock()
		r.rejectRegistration(node, ErrDuplicateOperationID, labelReasonDuplicateID)

		return ErrDuplicateOperationID
	}

	for _, inputID := range node.inputIDs {
		if _, exists := r.nodes[inputID]; !exists {
			r.mu.Unlock()
			r.rejectRegistration(node, ErrUnknownInputOperation, labelReasonUnknownInput)

			return ErrUnknownInputOperation
		}
	}

	registered := node.withRegistration(SequenceNumberUint(len(r.ordered)+1), r.now())
	r.nodes[registered.id] = registered
	r.ordered = append(r.ordered, registered.id)
	size := len(r.ordered)

	r.mu.Unlock()

	r.logDebug(
		logMsgNodeRegistered,
		logAttrOperationID, registered.id.String(),
		logAttrOperationType, registered.operationType,
		logAttrInputCount, len(registered.inputIDs),
		logAttrSequence, registered.sequence,
	)
	r.recordSize(size)

	return nil
}

// Get returns the node registered under id. The bool result is false if there is none.
func (r *Registry) Get(id OperationID) (OperationNode, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	node, exists := r.nodes[id]

	return node, exists
}

// Has reports whether a node is registered under id.
func (r *Registry) Has(id OperationID) bool {
	_, exists := r.Get(id)

	return exists
}

// Len returns the number of registered nodes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.ordered)
}

// BuildTree returns the nodes reachable from rootID, each preceded by all of its transitive dependencies.
//
// Every node appears exactly once, even if it is reachable via multiple paths; the first-reached position wins.
// The last entry is the root node itself. An unknown rootID yields an empty sequence.
func (r *Registry) BuildTree(rootID OperationID) OperationNodes {
	r.mu.RLock()
	tree := make(OperationNodes, 0)
	visited := make(map[OperationID]struct{})
	r.appendWithDependencies(rootID, visited, &tree)
	r.mu.RUnlock()

	if len(tree) > 0 {
		r.logDebug(logMsgTreeBuilt, logAttrOperationID, rootID.String(), logAttrNodeCount, len(tree))
	}

	return tree
}

// appendWithDependencies is a depth-first, post-order walk: inputs in order, then the node itself.
// Callers must hold at least the read lock.
func (r *Registry) appendWithDependencies(id OperationID, visited map[OperationID]struct{}, tree *OperationNodes) {
	if _, seen := visited[id]; seen {
		return
	}

	node, exists := r.nodes[id]
	if !exists {
		return
	}

	visited[id] = struct{}{}

	for _, inputID := range node.inputIDs {
		r.appendWithDependencies(inputID, visited, tree)
	}

	*tree = append(*tree, node)
}

// Query returns all registered nodes matching the filter, in sequence order.
func (r *Registry) Query(filter NodeFilter) OperationNodes {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(OperationNodes, 0)
	for _, id := range r.ordered {
		node := r.nodes[id]
		if filter.Matches(node) {
			result = append(result, node)
		}
	}

	return result
}

// Nodes returns all registered nodes in sequence order.
func (r *Registry) Nodes() OperationNodes {
	return r.Query(BuildNodeFilter().MatchingAnyNode())
}

// Generation returns the number of times the registry has been cleared.
// Ids are only unique within one generation.
func (r *Registry) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.generation
}

// Clear discards all nodes and resets the id counter to its initial value.
func (r *Registry) Clear() {
	r.mu.Lock()
	discarded := len(r.ordered)
	r.nodes = make(map[OperationID]OperationNode)
	r.ordered = make(OperationIDs, 0)
	r.idCounter = initialIDCounter
	r.generation++
	r.mu.Unlock()

	if r.logger != nil {
		r.logger.Info(logMsgRegistryCleared, logAttrNodeCount, discarded)
	}

	r.recordSize(0)
}

func (r *Registry) validateBuilt(node OperationNode) error {
	if node.id.IsZero() {
		return ErrEmptyOperationID
	}

	if node.operationType == "" {
		return ErrEmptyOperationType
	}

	return nil
}

func (r *Registry) rejectRegistration(node OperationNode, err error, reason string) {
	if r.logger != nil {
		r.logger.Error(
			logMsgRegistrationRejected,
			logAttrError, err.Error(),
			logAttrOperationID, node.id.String(),
			logAttrOperationType, node.operationType,
		)
	}

	if r.metricsCollector != nil {
		r.metricsCollector.IncrementCounter(metricRegistrationsRejected, map[string]string{labelReason: reason})
	}
}

func (r *Registry) logDebug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

func (r *Registry) recordSize(size int) {
	if r.metricsCollector != nil {
		r.metricsCollector.RecordValue(metricRegistrySize, float64(size), nil)
	}
}
