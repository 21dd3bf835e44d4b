package opengl

// ── Shaders ───────────────────────────────────────────────────────────────────

// vertex shader: Gouraud directional lighting on the part colour, world-space
// position and normal passed on for the point light.
const vertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inUV;
layout(location = 3) in vec4 inColor;

uniform mat4 model;
uniform mat4 normalMatrix;
uniform mat4 view;
uniform mat4 projection;

uniform bool directionalLighting;
uniform vec3 lightDirection;
uniform vec3 lightColor;

out vec4 fragColor;
out vec3 fragNormal;
out vec3 fragWorldPos;
out vec2 fragUV;

void main() {
    vec4 worldPos = model * vec4(inPosition, 1.0);
    vec3 normal   = normalize(mat3(normalMatrix) * inNormal);

    if (directionalLighting) {
        float nDotL = max(dot(normal, lightDirection), 0.0);
        fragColor = vec4(lightColor * inColor.rgb * nDotL, inColor.a);
    } else {
        fragColor = inColor;
    }

    fragNormal   = normal;
    fragWorldPos = worldPos.xyz;
    fragUV       = inUV;
    gl_Position  = projection * view * worldPos;
}
` + "\x00"

// fragment shader: point light diffuse added on top of the vertex colour.
// The texture only shows through the point light term.
const fragSrc = `
#version 410 core
in vec4 fragColor;
in vec3 fragNormal;
in vec3 fragWorldPos;
in vec2 fragUV;

uniform bool pointLighting;
uniform bool useTexture;
uniform sampler2D floorTex;
uniform vec3 pointLightPos;
uniform vec3 pointLightColor;
uniform float textureBrightness;

out vec4 outColor;

void main() {
    if (!pointLighting) {
        outColor = fragColor;
        return;
    }

    vec3 toLight = normalize(pointLightPos - fragWorldPos);
    float nDotL  = max(dot(toLight, normalize(fragNormal)), 0.0);

    vec3 surface = fragColor.rgb;
    if (useTexture) {
        surface = texture(floorTex, fragUV).rgb * textureBrightness;
    }
    vec3 diffuse = pointLightColor * surface * nDotL;

    outColor = vec4(diffuse + fragColor.rgb, fragColor.a);
}
` + "\x00"
