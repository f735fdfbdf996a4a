package reencode

import (
	"encoding/json"

	"github.com/meigma/gltfpack/gltf"
)

type textureInfo struct {
	Index gltf.Index[gltf.Texture] `json:"index"`
}

// textureIndex returns the index member of a textureInfo object, or an
// undefined index when raw is absent or malformed.
func textureIndex(raw json.RawMessage) gltf.Index[gltf.Texture] {
	if len(raw) == 0 {
		return gltf.Undefined[gltf.Texture]()
	}
	var info textureInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return gltf.Undefined[gltf.Texture]()
	}
	return info.Index
}

type material struct {
	PBR      json.RawMessage `json:"pbrMetallicRoughness"`
	Emissive json.RawMessage `json:"emissiveTexture"`
}

type pbr struct {
	BaseColor json.RawMessage `json:"baseColorTexture"`
}

// SRGBTextures returns the textures that some material samples as color:
// its base color texture or its emissive texture. Materials that do not
// decode are skipped.
func SRGBTextures(doc gltf.Document) map[gltf.Index[gltf.Texture]]bool {
	set := make(map[gltf.Index[gltf.Texture]]bool)
	materials, err := gltf.GetList[json.RawMessage](doc, gltf.ListMaterials)
	if err != nil {
		return set
	}
	for _, raw := range materials {
		var m material
		if err := json.Unmarshal(raw, &m); err != nil {
			continue
		}
		if len(m.PBR) > 0 {
			var p pbr
			if err := json.Unmarshal(m.PBR, &p); err == nil {
				if idx := textureIndex(p.BaseColor); idx.IsDefined() {
					set[idx] = true
				}
			}
		}
		if idx := textureIndex(m.Emissive); idx.IsDefined() {
			set[idx] = true
		}
	}
	return set
}
