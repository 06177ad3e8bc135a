// Package scene turns a placement set into the scene description handed to
// a rendering engine.
//
// A scene is the placed objects plus a fixed environment: a wide thin floor
// slab just below z=0, a directional sun light and a perspective camera on a
// circle of radius 3 at height 2, looking at the origin. Each test scene is
// viewed from several camera angles; every angle shares the same objects and
// the same colours.
//
// [Paths] names the files the engine writes for one (test, angle) view.
package scene
