package mqo

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

type WriterOption struct {
	// ShiftJIS writes a Ver 1.0 document for Metasequoia 4.5 and earlier.
	ShiftJIS bool
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func WriteMQO(doc *Document, ww io.Writer, opt *WriterOption) error {
	if opt == nil {
		opt = &WriterOption{}
	}
	if opt.ShiftJIS {
		tw := transform.NewWriter(ww, japanese.ShiftJIS.NewEncoder())
		defer tw.Close()
		ww = tw
	}
	w := bufio.NewWriter(ww)
	w.WriteString("Metasequoia Document\n")
	if opt.ShiftJIS {
		w.WriteString("Format Text Ver 1.0\n")
	} else {
		w.WriteString("Format Text Ver 1.1\n")
		w.WriteString("CodePage utf8\n")
	}
	w.WriteString("\n")

	fmt.Fprintf(w, "Material %v {\n", len(doc.Materials))
	for _, mat := range doc.Materials {
		fmt.Fprintf(w, "\t\"%v\"", mat.Name)
		if mat.DoubleSided {
			fmt.Fprintf(w, " dbls(%d)", boolToInt(mat.DoubleSided))
		}
		fmt.Fprintf(w, " col(%.3f %.3f %.3f %.3f) dif(%.3f) amb(%.3f) emi(%.3f) spc(%.3f) power(%.2f)",
			mat.Color.X, mat.Color.Y, mat.Color.Z, mat.Color.W,
			mat.Diffuse, mat.Ambient, mat.Emission, mat.Specular, mat.Power)
		if mat.Texture != "" {
			fmt.Fprintf(w, " tex(\"%v\")", strings.Replace(mat.Texture, "\\", "/", -1))
		}
		w.WriteString("\n")
	}
	w.WriteString("}\n")

	for _, obj := range doc.Objects {
		fmt.Fprintf(w, "Object \"%v\" {\n", obj.Name)
		fmt.Fprintf(w, "\tdepth %d\n", obj.Depth)
		fmt.Fprintf(w, "\tlocking %v\n", boolToInt(obj.Locked))
		if !obj.Visible {
			w.WriteString("\tvisible 0\n")
		}
		fmt.Fprintf(w, "\tshading %v\n", obj.Shading)
		fmt.Fprintf(w, "\tfacet %v\n", obj.Facet)

		fmt.Fprintf(w, "\tvertex %v {\n", len(obj.Vertexes))
		for _, v := range obj.Vertexes {
			fmt.Fprintf(w, "\t\t%v %v %v\n", v.X, v.Y, v.Z)
		}
		w.WriteString("\t}\n")

		fmt.Fprintf(w, "\tface %v {\n", len(obj.Faces))
		for _, f := range obj.Faces {
			fmt.Fprintf(w, "\t\t%v V(%v) M(%v)", len(f.Verts), strings.Trim(fmt.Sprint(f.Verts), "[]"), f.Material)
			if len(f.UVs) > 0 {
				w.WriteString(" UV(")
				for i, uv := range f.UVs {
					if i != 0 {
						w.WriteString(" ")
					}
					fmt.Fprintf(w, "%v %v", uv.X, uv.Y)
				}
				w.WriteString(")")
			}
			w.WriteString("\n")
		}
		w.WriteString("\t}\n")

		w.WriteString("}\n")
	}

	w.WriteString("Eof\n")
	return w.Flush()
}
