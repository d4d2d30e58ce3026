package renderer

const surfaceVertexShader = `#version 410 core
layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;

uniform mat4 uView;
uniform mat4 uProjection;
uniform float uPointSize;

out vec3 vPosition;
out vec3 vNormal;

void main() {
    vec4 viewPos = uView * vec4(aPosition, 1.0);
    vPosition = viewPos.xyz;
    vNormal = mat3(uView) * aNormal;
    gl_PointSize = uPointSize;
    gl_Position = uProjection * viewPos;
}
`

const surfaceFragmentShader = `#version 410 core
#define MAX_LIGHTS 4

in vec3 vPosition;
in vec3 vNormal;

uniform vec3 uColor;
uniform float uOpacity;
uniform float uAmbient;
uniform float uDiffuse;
uniform float uSpecular;
uniform float uSpecularPower;
uniform bool uLighting;
uniform bool uFlat;

uniform int uLightCount;
uniform int uLightKind[MAX_LIGHTS];
uniform vec3 uLightPosition[MAX_LIGHTS];
uniform vec3 uLightColor[MAX_LIGHTS];

out vec4 FragColor;

void main() {
    if (!uLighting) {
        FragColor = vec4(uColor, uOpacity);
        return;
    }

    vec3 n;
    if (uFlat) {
        n = normalize(cross(dFdx(vPosition), dFdy(vPosition)));
    } else {
        n = normalize(vNormal);
        if (!gl_FrontFacing) {
            n = -n;
        }
    }

    vec3 toEye = normalize(-vPosition);
    vec3 result = uAmbient * uColor;
    for (int i = 0; i < uLightCount; i++) {
        vec3 l = uLightKind[i] == 1
            ? normalize(uLightPosition[i] - vPosition)
            : normalize(uLightPosition[i]);
        float diff = max(dot(n, l), 0.0);
        float spec = 0.0;
        if (diff > 0.0 && uSpecular > 0.0) {
            spec = pow(max(dot(n, normalize(l + toEye)), 0.0), uSpecularPower);
        }
        result += uLightColor[i] * (uDiffuse * diff * uColor + uSpecular * spec);
    }
    FragColor = vec4(result, uOpacity);
}
`

// The background is a full-screen strip generated from gl_VertexID.
const backgroundVertexShader = `#version 410 core
out float vT;

void main() {
    vec2 p = vec2(float(gl_VertexID & 1) * 2.0 - 1.0, float(gl_VertexID >> 1) * 2.0 - 1.0);
    vT = p.y * 0.5 + 0.5;
    gl_Position = vec4(p, 0.999, 1.0);
}
`

const backgroundFragmentShader = `#version 410 core
in float vT;

uniform vec3 uBottom;
uniform vec3 uTop;

out vec4 FragColor;

void main() {
    FragColor = vec4(mix(uBottom, uTop, vT), 1.0);
}
`
