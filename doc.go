// Package surfaceinput reads live multi-touch contacts from a tabletop touch
// surface once per host frame and maps them into a resolution-independent
// space.
//
// A host creates one Target, shares it between all of its nodes, and drives
// each Node with Evaluate once per frame:
//
//	target := surfaceinput.NewTarget()
//	node, err := surfaceinput.NewNode(target, surfaceinput.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer node.Close()
//
//	for range frames {
//		if err := node.Evaluate(surfaceinput.Inputs{Enable: true, NormalizeValues: true}); err != nil {
//			log.Warn("poll failed", "err", err)
//		}
//		frame := node.Frame()
//		...
//	}
//
// On Linux the default device is the first direct-touch multitouch device
// found under /dev/input. A Simulator can stand in for the hardware anywhere.
package surfaceinput
