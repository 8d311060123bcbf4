// Package lens corrects optical lens defects: geometric distortion with a
// rectilinear or fisheye radial model plus tangential terms, and radial
// light falloff (vignetting).
//
// Both corrections are area tasks run by a task.Host. Distances are
// normalized so that the image corner farthest from the optical center
// lies at radius 1.
package lens
