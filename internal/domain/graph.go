package domain

// GraphNode is a node in a query result, keyed by the store's element id.
type GraphNode struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// GraphEdge is a directed relationship in a query result. Source and Target
// are node element ids.
type GraphEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

// GraphResult is the deduplicated node set plus edge list consumed by graph
// visualization clients.
type GraphResult struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// Neighbor is one row of a node-expansion query: the connecting relationship
// type and the entity on the far end.
type Neighbor struct {
	RelType    string `json:"rel_type"`
	TargetName string `json:"target_name"`
	TargetType string `json:"target_type"`
}

// PendingNode is the node-lane review record.
type PendingNode struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Source string `json:"source"`
}

// PendingRelationship is the relationship-lane review record, carrying both
// endpoints so the reviewer sees the full triple.
type PendingRelationship struct {
	ID         string `json:"id"`
	RelType    string `json:"rel_type"`
	Source     string `json:"source"`
	SourceName string `json:"source_name"`
	SourceType string `json:"source_type"`
	TargetName string `json:"target_name"`
	TargetType string `json:"target_type"`
}
