package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/carbonmcp/pkg/catalog"
)

const buttonDecl = `import * as React from 'react';

export interface ButtonProps extends React.HTMLAttributes<HTMLButtonElement> {
  /**
   * Specify the kind of Button you want to create
   * @default 'primary'
   */
  kind?:
    | 'primary'
    | 'secondary'
    | 'ghost';

  /** Specify whether the Button should be disabled */
  disabled?: boolean;

  /**
   * @deprecated use size instead
   */
  small?: boolean;

  /** @default 0 */
  tabIndex?: number;

  children: React.ReactNode;

  onClick(event: React.MouseEvent<HTMLButtonElement>): void;
}

declare const Button: React.FC<ButtonProps>;
export default Button;
`

func extract(t *testing.T, path, source string) []PropsDeclaration {
	t.Helper()
	manager := NewParserManager(nil, 1)
	defer manager.Close()

	decls, err := manager.ExtractFile([]byte(source), path)
	require.NoError(t, err)
	return decls
}

func propsByName(props []catalog.Prop) map[string]catalog.Prop {
	m := make(map[string]catalog.Prop, len(props))
	for _, p := range props {
		m[p.Name] = p
	}
	return m
}

func TestExtractFile_Interface(t *testing.T) {
	decls := extract(t, "Button.d.ts", buttonDecl)
	require.Len(t, decls, 1)
	assert.Equal(t, "ButtonProps", decls[0].Name)

	props := decls[0].Props
	require.Len(t, props, 6)
	names := make([]string, 0, len(props))
	for _, p := range props {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"kind", "disabled", "small", "tabIndex", "children", "onClick"}, names)

	byName := propsByName(props)

	kind := byName["kind"]
	assert.Equal(t, "'primary' | 'secondary' | 'ghost'", kind.Type)
	assert.False(t, kind.Required)
	assert.Equal(t, "Specify the kind of Button you want to create", kind.Description)
	assert.Equal(t, "primary", kind.DefaultValue)

	disabled := byName["disabled"]
	assert.Equal(t, "boolean", disabled.Type)
	assert.Equal(t, "Specify whether the Button should be disabled", disabled.Description)
	assert.Nil(t, disabled.DefaultValue)

	assert.Equal(t, "Deprecated: use size instead", byName["small"].Description)
	assert.Equal(t, float64(0), byName["tabIndex"].DefaultValue)

	children := byName["children"]
	assert.Equal(t, "ReactNode", children.Type)
	assert.True(t, children.Required)
	assert.Empty(t, children.Description)

	onClick := byName["onClick"]
	assert.Equal(t, "(event: MouseEvent<HTMLButtonElement>) => void", onClick.Type)
	assert.True(t, onClick.Required)
}

func TestExtractFile_TypeAliasIntersection(t *testing.T) {
	source := `
type BaseProps = { id?: string };
export type ModalProps = BaseProps & {
  open: boolean;
  modalHeading?: string;
} & {
  size?: 'xs' | 'sm';
};
`
	decls := extract(t, "Modal.d.ts", source)
	require.Len(t, decls, 2)
	assert.Equal(t, "BaseProps", decls[0].Name)
	assert.Equal(t, "ModalProps", decls[1].Name)

	byName := propsByName(decls[1].Props)
	require.Len(t, byName, 3)
	assert.True(t, byName["open"].Required)
	assert.False(t, byName["modalHeading"].Required)
	assert.Equal(t, "'xs' | 'sm'", byName["size"].Type)
}

func TestExtractFile_SkipsNonPropsAndEmpty(t *testing.T) {
	source := `
export interface Theme { name: string }
export type TileProps = SomethingElseProps;
declare namespace Carbon {
  interface TagProps { type?: string }
}
`
	decls := extract(t, "misc.d.ts", source)
	require.Len(t, decls, 1)
	assert.Equal(t, "TagProps", decls[0].Name)
}

func TestExtractFile_UnsupportedExtension(t *testing.T) {
	manager := NewParserManager(nil, 1)
	defer manager.Close()

	_, err := manager.ExtractFile([]byte("x"), "Button.js")
	assert.Error(t, err)
}

func TestParseJSDoc(t *testing.T) {
	tests := []struct {
		name    string
		comment string
		want    jsDoc
	}{
		{
			name:    "multi-line",
			comment: "/**\n * First line\n * second line\n * @see other\n */",
			want:    jsDoc{text: "First line second line"},
		},
		{
			name:    "line comment deprecated",
			comment: "// @deprecated old prop",
			want:    jsDoc{text: "old prop", deprecated: true},
		},
		{
			name:    "default value tag",
			comment: "/** Size of the tile\n * @defaultValue \"md\" */",
			want:    jsDoc{text: "Size of the tile", hasDefault: true, defaultValue: `"md"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseJSDoc(tt.comment))
		})
	}
}

func TestParseDefault(t *testing.T) {
	assert.Equal(t, "md", parseDefault("'md'"))
	assert.Equal(t, "md", parseDefault(`"md"`))
	assert.Equal(t, "md", parseDefault("`'md'`"))
	assert.Equal(t, false, parseDefault("false"))
	assert.Equal(t, float64(8), parseDefault("8"))
	assert.Equal(t, "() => {}", parseDefault("() => {}"))
	assert.Nil(t, parseDefault("  "))
}
