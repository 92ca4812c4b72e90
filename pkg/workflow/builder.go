package workflow

// DefinitionBuilder assembles a Definition fluently, mirroring the shape
// tooling would produce from a visual graph editor.
type DefinitionBuilder struct {
	d Definition
}

func NewDefinitionBuilder() *DefinitionBuilder { return &DefinitionBuilder{d: Definition{}} }

func (b *DefinitionBuilder) Name(name string) *DefinitionBuilder { b.d.Name = name; return b }
func (b *DefinitionBuilder) Description(desc string) *DefinitionBuilder {
	b.d.Description = desc
	return b
}

func (b *DefinitionBuilder) AddNode(n NodeDef) *DefinitionBuilder {
	b.d.Nodes = append(b.d.Nodes, n)
	return b
}

func (b *DefinitionBuilder) AddEdge(e EdgeDef) *DefinitionBuilder {
	b.d.Edges = append(b.d.Edges, e)
	return b
}

func (b *DefinitionBuilder) Build() Definition { return b.d }

type NodeDefBuilder struct{ n NodeDef }

func NewNodeDefBuilder() *NodeDefBuilder                {
	return &NodeDefBuilder{}
}
func (b *NodeDefBuilder) ID(id string) *NodeDefBuilder   { b.n.ID = id; return b }
func (b *NodeDefBuilder) Type(t string) *NodeDefBuilder  { b.n.Type = t; return b }
func (b *NodeDefBuilder) At(x, y float64) *NodeDefBuilder {
	b.n.Position = &Position{X: x, Y: y}
	return b
}
func (b *NodeDefBuilder) ConfigKV(k string, v any) *NodeDefBuilder {
	if b.n.Config == nil {
		b.n.Config = map[string]any{}
	}
	b.n.Config[k] = v
	return b
}
func (b *NodeDefBuilder) Build() NodeDef { return b.n }

type EdgeDefBuilder struct{ e EdgeDef }

func NewEdgeDefBuilder() *EdgeDefBuilder                            { return &EdgeDefBuilder{} }
func (b *EdgeDefBuilder) ID(id string) *EdgeDefBuilder              { b.e.ID = id; return b }
func (b *EdgeDefBuilder) Source(id, handle string) *EdgeDefBuilder  { b.e.Source = id; b.e.SourceHandle = handle; return b }
func (b *EdgeDefBuilder) Target(id, handle string) *EdgeDefBuilder  { b.e.Target = id; b.e.TargetHandle = handle; return b }
func (b *EdgeDefBuilder) Condition(expr string) *EdgeDefBuilder     { b.e.Condition = expr; return b }
func (b *EdgeDefBuilder) Expression(expr string) *EdgeDefBuilder    { b.e.Expression = expr; return b }
func (b *EdgeDefBuilder) Build() EdgeDef                            { return b.e }
