package renderer

const meshVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProjection;

out vec3 vNormal;

void main() {
	vNormal = mat3(uModel) * aNormal;
	gl_Position = uProjection * uView * uModel * vec4(aPos, 1.0);
}
`

// Normals are not normalized by the cloth, and may be zero.
const meshFragmentShader = `
#version 410 core

in vec3 vNormal;

uniform vec3 uColor;
uniform vec3 uSunDir;
uniform vec3 uSunColor;
uniform vec3 uAmbient;

out vec4 FragColor;

void main() {
	float len = length(vNormal);
	float diffuse = 0.0;
	if (len > 1e-6) {
		diffuse = abs(dot(vNormal / len, normalize(uSunDir)));
	}
	vec3 light = uAmbient + uSunColor * diffuse;
	FragColor = vec4(uColor * light, 1.0);
}
`

const lineVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;

uniform mat4 uViewProjection;

void main() {
	gl_Position = uViewProjection * vec4(aPos, 1.0);
}
`

const lineFragmentShader = `
#version 410 core

uniform vec3 uColor;

out vec4 FragColor;

void main() {
	FragColor = vec4(uColor, 1.0);
}
`
