// Package scene drives an octree with a population of moving objects the way a render loop
// would: animate, adjust, query, and periodically clean, once per frame.
package scene

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/sceneindex/logging"
	"go.viam.com/sceneindex/octree"
	"go.viam.com/sceneindex/spatialmath"
)

// Scene tracks objects in an octree.
type Scene struct {
	logger     logging.Logger
	index      *octree.Octree
	cleanEvery int

	objects []*Object
	nodes   map[*Object]*octree.Node
	frame   int
}

// New returns an empty scene indexed by an octree built from cfg.Octree.
func New(cfg Config, logger logging.Logger) (*Scene, error) {
	if err := cfg.Validate("scene"); err != nil {
		return nil, errors.Wrap(err, "invalid scene config")
	}
	index, err := octree.New(cfg.Octree, logger.Sublogger("octree"))
	if err != nil {
		return nil, err
	}
	return &Scene{
		logger:     logger,
		index:      index,
		cleanEvery: cfg.CleanEvery,
		nodes:      map[*Object]*octree.Node{},
	}, nil
}

// Add starts tracking obj.
func (s *Scene) Add(obj *Object) error {
	if _, ok := s.nodes[obj]; ok {
		return errors.Errorf("object %q is already in the scene", obj.Name)
	}
	n := octree.NewNode(obj, obj.AABB())
	s.index.Insert(n)
	s.nodes[obj] = n
	s.objects = append(s.objects, obj)
	return nil
}

// Remove stops tracking obj. It reports whether obj was tracked.
func (s *Scene) Remove(obj *Object) bool {
	n, ok := s.nodes[obj]
	if !ok {
		return false
	}
	n.RemoveSelf()
	delete(s.nodes, obj)
	s.objects = lo.Without(s.objects, obj)
	s.logger.Debugw("removed object", "name", obj.Name, "frame", s.frame)
	return true
}

// Move places obj at position. The index catches up on the next Step.
func (s *Scene) Move(obj *Object, position r3.Vector) {
	obj.SetPosition(position)
	if n, ok := s.nodes[obj]; ok {
		n.SetAABB(obj.AABB())
	}
}

// Step advances one frame: every object whose box changed since the last frame is adjusted in
// the index, and every cleanEvery frames empty cells are reclaimed.
func (s *Scene) Step() {
	s.frame++
	for _, obj := range s.objects {
		n := s.nodes[obj]
		if box := obj.AABB(); box != n.AABB() {
			n.SetAABB(box)
		}
		n.Adjust()
	}
	if s.cleanEvery > 0 && s.frame%s.cleanEvery == 0 {
		s.index.Clean()
		s.logger.Debugw("cleaned index", "frame", s.frame, "cells", s.index.Stats().Cells)
	}
}

// Visible returns the objects the camera can see, in traversal order.
func (s *Scene) Visible(cam octree.Camera) []*Object {
	return toObjects(s.index.FrustumHits(cam))
}

// Pick returns the objects overlapping box, in traversal order.
func (s *Scene) Pick(box spatialmath.AABB) []*Object {
	return toObjects(s.index.AABBHits(box))
}

// Objects returns the tracked objects in the order they were added.
func (s *Scene) Objects() []*Object {
	return s.objects
}

// Len returns the number of tracked objects.
func (s *Scene) Len() int {
	return len(s.objects)
}

// Frame returns the number of completed steps.
func (s *Scene) Frame() int {
	return s.frame
}

// Index returns the scene's octree.
func (s *Scene) Index() *octree.Octree {
	return s.index
}

func toObjects(hits []octree.Bounded) []*Object {
	return lo.FilterMap(hits, func(hit octree.Bounded, _ int) (*Object, bool) {
		obj, ok := hit.(*Object)
		return obj, ok
	})
}
