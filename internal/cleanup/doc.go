// Package cleanup decides which source folders may be removed after a
// recording has been converted, and carries out that decision.
//
// Planning and removal are separate steps. PlanFor only inspects the tree; it
// always targets the fg_* folder and adds the enclosing clip_* folder when the
// recording was the last directory under its video/ parent. Execute performs
// the removals in order through a Remover.
package cleanup
