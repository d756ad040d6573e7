package pipeline

import (
	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
)

// topology records which stage reads from which, so every pipe keeps a single consumer.
type topology struct {
	graph graph.Graph[string, string]
}

func newTopology() *topology {
	return &topology{
		graph: graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles()),
	}
}

func (t *topology) addStage(name string) error {
	err := t.graph.AddVertex(name)
	if errors.Is(err, graph.ErrVertexAlreadyExists) {
		return errors.Wrap(ErrDuplicateStage, name)
	}

	if err != nil {
		return errors.Wrapf(err, "unable to add stage %s", name)
	}

	return nil
}

// checkInput fails when parentName already feeds another stage.
func (t *topology) checkInput(parentName string) error {
	adjacencyMap, err := t.graph.AdjacencyMap()
	if err != nil {
		return errors.Wrap(err, "unable to get adjacency map")
	}

	children, ok := adjacencyMap[parentName]
	if !ok {
		return errors.Wrapf(ErrInputMustBeSet, "unknown stage %s", parentName)
	}

	if len(children) > 0 {
		return errors.Wrap(ErrInputAlreadyConsumed, parentName)
	}

	return nil
}

func (t *topology) addLink(parentName, childName string) error {
	err := t.graph.AddEdge(parentName, childName)
	if err != nil {
		return errors.Wrapf(err, "unable to link %s to %s", parentName, childName)
	}

	return nil
}

func (t *topology) order() ([]string, error) {
	names, err := graph.TopologicalSort(t.graph)
	if err != nil {
		return nil, errors.Wrap(err, "unable to sort stages")
	}

	return names, nil
}
