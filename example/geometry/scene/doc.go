// Package scene describes a solid as a YAML list of named kernel steps and evaluates it through the
// tracked kernel, so that every named solid carries its derivation history.
//
//	name: bracket
//	steps:
//	  - name: plate
//	    op: cube
//	    params: {size: [4, 2, 0.5]}
//	  - name: hole
//	    op: cylinder
//	    params: {height: 1, radius: 0.4}
//	  - name: drilled
//	    op: subtract
//	    from: [plate, hole]
package scene
