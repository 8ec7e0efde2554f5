package schema

// joinGraph is an undirected graph of cubes. Edges keep the declaring
// cube so join conditions can be expanded from either side.
type joinGraph struct {
	nodes map[string]bool
	edges map[string][]edge // cube -> adjacent joins, in declaration order
}

type edge struct {
	to    string
	owner string
	join  Join
}

func newJoinGraph() *joinGraph {
	return &joinGraph{
		nodes: make(map[string]bool),
		edges: make(map[string][]edge),
	}
}

func (g *joinGraph) addNode(name string) {
	if !g.nodes[name] {
		g.nodes[name] = true
		g.edges[name] = []edge{}
	}
}

func (g *joinGraph) addEdge(owner string, j Join) {
	g.edges[owner] = append(g.edges[owner], edge{to: j.Name, owner: owner, join: j})
	if j.Name != owner {
		g.edges[j.Name] = append(g.edges[j.Name], edge{to: owner, owner: owner, join: j})
	}
}

// path returns breadth-first join steps from root to every target.
// Steps shared between targets are emitted once.
func (g *joinGraph) path(root string, targets []string) (JoinPath, error) {
	type via struct {
		from string
		e    edge
	}
	parent := map[string]via{}
	visited := map[string]bool{root: true}
	queue := []string{root}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range g.edges[cur] {
			if visited[e.to] {
				continue
			}
			visited[e.to] = true
			parent[e.to] = via{from: cur, e: e}
			queue = append(queue, e.to)
		}
	}

	jp := JoinPath{Root: root}
	included := map[string]bool{root: true}
	for _, target := range targets {
		if included[target] {
			continue
		}
		if !visited[target] {
			return JoinPath{}, &NoJoinPathError{From: root, To: target}
		}

		// Walk back to the nearest cube already in the path.
		var chain []JoinStep
		for cur := target; !included[cur]; cur = parent[cur].from {
			p := parent[cur]
			chain = append(chain, JoinStep{
				From:         p.from,
				To:           cur,
				Owner:        p.e.owner,
				Relationship: p.e.join.Relationship,
				SQL:          p.e.join.SQL,
			})
		}
		for i := len(chain) - 1; i >= 0; i-- {
			jp.Steps = append(jp.Steps, chain[i])
			included[chain[i].To] = true
		}
	}
	return jp, nil
}
